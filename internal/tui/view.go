package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, _, mapWidth, mapHeight := m.layout()
	contentWidth := max(10, m.width)

	visited := m.resolver.Visited().Len()
	header := titleStyle.Render(fmt.Sprintf(" visitmap ─ %d countries visited ", visited))
	if m.source != "" {
		header += dimStyle.Render(" " + m.source)
	}
	header = lipgloss.NewStyle().Width(contentWidth).MaxHeight(1).Render(header)

	var mapView string
	switch {
	case m.showTable:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case m.editMode:
		m.ta.SetWidth(min(mapWidth-4, 72))
		m.ta.SetHeight(min(mapHeight-2, 8))
		box := boxStyle.Render(m.ta.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	default:
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderMap(mapWidth, mapHeight))
	}

	body := mapView
	if m.showSidebar {
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Height(mapHeight).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	status := " " + m.status + " "
	if strings.HasPrefix(m.status, "visited: ") {
		status = errorStyle.Render(status)
	} else {
		status = dimStyle.Render(status)
	}
	hover := ""
	if m.hovering && m.hoverIdx >= 0 {
		hover = dimStyle.Render("  " + m.describe(m.hoverIdx) + "  ")
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(hover))
	right := lipgloss.Place(spacerW+lipgloss.Width(hover), 1, lipgloss.Right, lipgloss.Center, hover)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"←→ pan",
		"+/- zoom",
		"0 reset",
		"Tab list",
		"Enter select",
		"/ filter",
		"e edit visited",
		"a table",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
