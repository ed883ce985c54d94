package tui

import (
	"strings"

	"visitmap/internal/geom"
)

type layer int

const (
	layerUnvisited layer = iota
	layerVisited
	layerHighlight
	layerCount
)

// viewProjection fits the globe into the w x h cell map (in micro-pixels),
// then applies zoom around the centre and the pan offset.
func (m Model) viewProjection(w, h int) (geom.Projection, bool) {
	wMic, hMic := float64(w*2), float64(h*4)
	p, err := geom.Fit(wMic, hMic, 1)
	if err != nil {
		return geom.Projection{}, false
	}
	p.Scale *= m.zoom
	p.Translate = [2]float64{wMic/2 + float64(m.offsetX*2), hMic/2 + float64(m.offsetY*4)}
	return p, true
}

// highlighted returns the feature painted with the hover colour, or -1.
// Only visited countries are highlighted.
func (m Model) highlighted() int {
	candidates := []int{m.selected}
	if m.hovering {
		candidates = []int{m.hoverIdx, m.selected}
	}
	for _, i := range candidates {
		if i >= 0 && i < len(m.features) {
			if _, visited := m.resolver.Classify(m.features[i].ID); visited {
				return i
			}
		}
	}
	return -1
}

func rings(pa geom.Path) [][][2]float64 {
	out := make([][][2]float64, 0, len(pa.Subpaths))
	for _, sp := range pa.Subpaths {
		out = append(out, sp.Points)
	}
	return out
}

func (m Model) renderMap(w, h int) string {
	proj, ok := m.viewProjection(w, h)
	if !ok {
		return ""
	}
	var bufs [layerCount]*brailleBuf
	for i := range bufs {
		bufs[i] = newBrailleBuf(w, h)
	}
	hl := m.highlighted()
	for i, f := range m.features {
		path, ok := proj.Path(f)
		if !ok {
			continue
		}
		l := layerUnvisited
		if _, visited := m.resolver.Classify(f.ID); visited {
			l = layerVisited
		}
		if i == hl {
			l = layerHighlight
		}
		rs := rings(path)
		bufs[l].fill(rs)
		bufs[l].outline(rs)
	}

	lines := make([]string, h)
	for y := 0; y < h; y++ {
		var row strings.Builder
		var run []rune
		cur := layer(-1)
		flush := func() {
			if len(run) == 0 {
				return
			}
			if cur < 0 {
				row.WriteString(m.styles.canvas.Render(string(run)))
			} else {
				row.WriteString(m.styles.layer(cur).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < w; x++ {
			top, r := layer(-1), ' '
			for l := layerCount - 1; l >= 0; l-- {
				if mask := bufs[l].mask(x, y); mask != 0 {
					top, r = l, glyph(mask)
					break
				}
			}
			if top != cur {
				flush()
				cur = top
			}
			run = append(run, r)
		}
		flush()
		lines[y] = row.String()
	}
	return strings.Join(lines, "\n")
}

// hitTest returns the topmost feature under map cell (cx, cy), or -1.
func (m Model) hitTest(cx, cy int) int {
	proj, ok := m.viewProjection(m.mapW, m.mapH)
	if !ok {
		return -1
	}
	x, y := float64(cx*2)+1, float64(cy*4)+2
	for i := len(m.features) - 1; i >= 0; i-- {
		path, ok := proj.Path(m.features[i])
		if !ok {
			continue
		}
		b := path.Bounds()
		if x < b.MinX || x > b.MaxX || y < b.MinY || y > b.MaxY {
			continue
		}
		if path.Contains(x, y) {
			return i
		}
	}
	return -1
}
