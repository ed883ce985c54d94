package tui

import (
	"github.com/charmbracelet/lipgloss"

	"visitmap/internal/render"
)

var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	errorFg   = lipgloss.Color("#F87171")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	errorStyle = lipgloss.NewStyle().Foreground(errorFg)
)

// styles colours the map canvas from the render palette. The stroke colour
// doubles as the canvas background, as on the rendered page.
type styles struct {
	canvas    lipgloss.Style
	unvisited lipgloss.Style
	visited   lipgloss.Style
	highlight lipgloss.Style
}

func newStyles(p render.Palette) styles {
	bg := lipgloss.Color(p.Stroke)
	dot := lipgloss.NewStyle().Background(bg)
	return styles{
		canvas:    dot,
		unvisited: dot.Foreground(lipgloss.Color(p.Unvisited)),
		visited:   dot.Foreground(lipgloss.Color(p.Visited)),
		highlight: dot.Foreground(lipgloss.Color(p.Hover)).Bold(true),
	}
}

func (s styles) layer(l layer) lipgloss.Style {
	switch l {
	case layerVisited:
		return s.visited
	case layerHighlight:
		return s.highlight
	default:
		return s.unvisited
	}
}
