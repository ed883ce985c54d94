// Package tui previews the visited map in the terminal with braille glyphs.
package tui

import (
	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"visitmap/internal/countries"
	"visitmap/internal/geom"
	"visitmap/internal/render"
)

const sidebarWidth = 30

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string
	source string

	// Data
	features []geom.Feature
	resolver *countries.Resolver
	palette  render.Palette
	styles   styles

	// Country list
	l        list.Model
	selected int // feature index, -1 when nothing is selected

	// last rendered map size, used for hit testing
	mapW int
	mapH int

	// visited list editor
	editMode bool
	ta       textarea.Model

	// hover state
	hovering bool
	hoverIdx int

	// classification table
	showTable bool
	tbl       table.Model
}

// New builds a model over already loaded features. source is shown in the
// header only.
func New(features []geom.Feature, resolver *countries.Resolver, palette render.Palette, source string) Model {
	m := Model{
		showSidebar: true,
		helpVisible: true,
		zoom:        1.0,
		source:      source,
		features:    features,
		resolver:    resolver,
		palette:     palette,
		styles:      newStyles(palette),
		selected:    -1,
		hoverIdx:    -1,
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Countries"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)

	m.ta = textarea.New()
	m.ta.Placeholder = "Visited country codes, comma separated. Enter applies; Esc cancels."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)

	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)

	m.refreshItems()
	m.status = m.summary()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Visited returns the visited set currently applied, including edits.
func (m Model) Visited() countries.Set { return m.resolver.Visited() }
