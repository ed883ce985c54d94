package tui

import (
	"strconv"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshTable rebuilds the classification table from the current resolver.
func (m *Model) refreshTable() {
	items := m.classify()
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "ID", Width: 5},
		{Title: "Code", Width: 4},
		{Title: "Name", Width: 24},
		{Title: "Visited", Width: 7},
	}
	rows := make([]table.Row, 0, len(items))
	for i, it := range items {
		code := it.code
		if code == "" {
			code = "-"
		}
		visited := ""
		if it.visited {
			visited = "yes"
		}
		rows = append(rows, table.Row{strconv.Itoa(i + 1), it.id, code, it.name, visited})
	}
	// clear rows before swapping columns so the table never renders a mismatch
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}
