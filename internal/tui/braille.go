package tui

import (
	"math"
	"sort"
)

// brailleBits maps a micro-pixel (row, column) inside a cell to its dot.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[my%4][mx%2]
}

func (b *brailleBuf) mask(cx, cy int) uint8 { return b.m[cy][cx] }

// drawLine draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLine(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fill paints the interior of rings (micro coords) with the even-odd rule,
// sampling each micro-pixel at its centre. Holes stay empty.
func (b *brailleBuf) fill(rings [][][2]float64) {
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, r := range rings {
		for _, p := range r {
			minY = math.Min(minY, p[1])
			maxY = math.Max(maxY, p[1])
		}
	}
	if math.IsInf(minY, 0) {
		return
	}
	y0 := max(0, int(math.Floor(minY)))
	y1 := min(b.h*4-1, int(math.Ceil(maxY)))
	var xs []float64
	for my := y0; my <= y1; my++ {
		yc := float64(my) + 0.5
		xs = xs[:0]
		for _, r := range rings {
			for i := range r {
				a, c := r[i], r[(i+1)%len(r)]
				if (a[1] <= yc) == (c[1] <= yc) {
					continue
				}
				xs = append(xs, a[0]+(yc-a[1])*(c[0]-a[0])/(c[1]-a[1]))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			from := max(0, int(math.Ceil(xs[i]-0.5)))
			to := min(b.w*2-1, int(math.Floor(xs[i+1]-0.5)))
			for mx := from; mx <= to; mx++ {
				b.setPixel(mx, my)
			}
		}
	}
}

// outline draws ring edges so slivers narrower than a micro-pixel still show.
func (b *brailleBuf) outline(rings [][][2]float64) {
	for _, r := range rings {
		for i := 0; i+1 < len(r); i++ {
			b.drawLine(int(math.Floor(r[i][0])), int(math.Floor(r[i][1])),
				int(math.Floor(r[i+1][0])), int(math.Floor(r[i+1][1])))
		}
	}
}

func glyph(mask uint8) rune {
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
