package tui

import (
	"fmt"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"visitmap/internal/countries"
)

type countryItem struct {
	idx     int
	id      string
	code    string
	name    string
	visited bool
}

func (c countryItem) Title() string {
	mark := "  "
	if c.visited {
		mark = "● "
	}
	label := c.code
	if label == "" {
		label = "??"
	}
	if c.name != "" {
		label += " " + c.name
	}
	return mark + label
}

func (c countryItem) Description() string { return "id " + c.id }
func (c countryItem) FilterValue() string { return c.code + " " + c.name }

// classify resolves every feature against the current resolver.
func (m *Model) classify() []countryItem {
	items := make([]countryItem, 0, len(m.features))
	for i, f := range m.features {
		code, visited := m.resolver.Classify(f.ID)
		name := f.Name
		if name == "" && code != "" {
			name = countries.Name(code)
		}
		items = append(items, countryItem{idx: i, id: f.ID, code: code, name: name, visited: visited})
	}
	return items
}

// refreshItems rebuilds the sidebar: visited first, then by name.
func (m *Model) refreshItems() {
	items := m.classify()
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].visited != items[j].visited {
			return items[i].visited
		}
		return items[i].name < items[j].name
	})
	li := make([]list.Item, len(items))
	for i, it := range items {
		li[i] = it
	}
	m.l.SetItems(li)
	if m.showTable {
		m.refreshTable()
	}
}

func (m Model) summary() string {
	visited := 0
	for _, f := range m.features {
		if _, v := m.resolver.Classify(f.ID); v {
			visited++
		}
	}
	return fmt.Sprintf("%d countries, %d visited", len(m.features), visited)
}

// applyVisited parses a comma or whitespace separated code list and
// re-classifies every feature against it.
func (m *Model) applyVisited(text string) error {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t' || r == ';'
	})
	set, err := countries.NewSet(fields...)
	if err != nil {
		return err
	}
	m.resolver = m.resolver.WithVisited(set)
	m.refreshItems()
	return nil
}
