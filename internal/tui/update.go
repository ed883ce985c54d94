package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// layout returns the map origin and size in cells; View and mouse handling
// must agree on it.
func (m Model) layout() (originX, originY, w, h int) {
	headerHeight, footerHeight := 1, 2
	h = max(4, m.height-headerHeight-footerHeight)
	side := 0
	if m.showSidebar {
		side = sidebarWidth + 1
	}
	w = max(10, max(10, m.width)-side)
	return side, headerHeight, w, h
}

func (m *Model) resize() {
	_, _, m.mapW, m.mapH = m.layout()
	m.l.SetSize(sidebarWidth-2, m.mapH-2)
}

func (m Model) describe(i int) string {
	if i < 0 || i >= len(m.features) {
		return ""
	}
	f := m.features[i]
	code, visited := m.resolver.Classify(f.ID)
	name := f.Name
	if name == "" {
		name = "id " + f.ID
	}
	if code == "" {
		return name + " (unresolved)"
	}
	if visited {
		return fmt.Sprintf("%s %s, visited", code, name)
	}
	return fmt.Sprintf("%s %s", code, name)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case tea.KeyMsg:
		// While the list filter has focus every key belongs to it.
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.editMode {
			switch msg.String() {
			case "esc":
				m.editMode = false
				m.ta.Blur()
				m.status = "edit cancelled"
				return m, nil
			case "enter":
				if err := m.applyVisited(m.ta.Value()); err != nil {
					m.status = "visited: " + strings.ReplaceAll(err.Error(), "\n", " ")
					return m, nil
				}
				m.editMode = false
				m.ta.Blur()
				m.status = m.summary()
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		if m.showTable {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "a", "esc":
				m.showTable = false
				return m, nil
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.25 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom = 1
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			m.resize()
		case "e":
			m.editMode = true
			m.ta.SetValue(strings.Join(m.resolver.Visited().Codes(), ", "))
			m.ta.Focus()
			m.status = "editing visited countries"
			return m, nil
		case "a":
			m.showTable = true
			m.refreshTable()
			return m, nil
		case "h":
			m.helpVisible = !m.helpVisible
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(countryItem); ok {
					m.selected = it.idx
					m.status = "selected " + m.describe(it.idx)
				}
			}
		case "esc":
			m.selected = -1
			m.status = m.summary()
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		case "shift+up":
			m.offsetY--
		case "shift+down":
			m.offsetY++
		case "up", "down":
			// list navigation when the sidebar is open, panning otherwise
			if !m.showSidebar {
				if msg.String() == "up" {
					m.offsetY--
				} else {
					m.offsetY++
				}
			}
		}
	case tea.MouseMsg:
		ox, oy, w, h := m.layout()
		cx, cy := msg.X-ox, msg.Y-oy
		if cx >= 0 && cx < w && cy >= 0 && cy < h {
			m.hovering = true
			m.hoverIdx = m.hitTest(cx, cy)
		} else {
			m.hovering = false
			m.hoverIdx = -1
		}
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}
