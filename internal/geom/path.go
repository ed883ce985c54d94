package geom

import (
	"math"
	"strconv"
	"strings"
)

// DefaultDigits is the coordinate precision used by Path.String.
const DefaultDigits = 3

// Subpath is one projected ring.
type Subpath struct {
	Points [][2]float64
	Closed bool
}

// Path is the screen-space outline of a feature, one subpath per surviving ring.
type Path struct {
	Subpaths []Subpath
}

// Path projects every ring of f. Rings left with fewer than two distinct
// finite points are dropped; ok is false when nothing survives.
func (p Projection) Path(f Feature) (Path, bool) {
	var out Path
	for _, poly := range f.Polygons {
		for _, ring := range poly {
			pts := p.projectRing(ring)
			if !hasTwoDistinct(pts) {
				continue
			}
			out.Subpaths = append(out.Subpaths, Subpath{Points: pts, Closed: true})
		}
	}
	if len(out.Subpaths) == 0 {
		return Path{}, false
	}
	return out, true
}

func (p Projection) projectRing(ring Ring) [][2]float64 {
	pts := make([][2]float64, 0, len(ring))
	for _, c := range ring {
		x, y := p.Project(c[0], c[1])
		if !finite(x) || !finite(y) {
			continue
		}
		pts = append(pts, [2]float64{x, y})
	}
	return pts
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func hasTwoDistinct(pts [][2]float64) bool {
	for i := 1; i < len(pts); i++ {
		if pts[i] != pts[0] {
			return true
		}
	}
	return false
}

// Len is the total number of points.
func (pa Path) Len() int {
	n := 0
	for _, sp := range pa.Subpaths {
		n += len(sp.Points)
	}
	return n
}

// Bounds returns the screen box of the path; the zero box for an empty path.
func (pa Path) Bounds() BBox {
	var bb BBox
	seen := false
	for _, sp := range pa.Subpaths {
		for _, pt := range sp.Points {
			bb.extend(pt[0], pt[1], !seen)
			seen = true
		}
	}
	return bb
}

// Contains reports whether (x, y) is inside the path under the even-odd rule.
func (pa Path) Contains(x, y float64) bool {
	inside := false
	for _, sp := range pa.Subpaths {
		pts := sp.Points
		for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
			a, b := pts[i], pts[j]
			if (a[1] > y) != (b[1] > y) && x < (b[0]-a[0])*(y-a[1])/(b[1]-a[1])+a[0] {
				inside = !inside
			}
		}
	}
	return inside
}

// SVG renders the path as move/line/close commands with coordinates rounded
// to digits decimals (negative digits keeps full precision).
func (pa Path) SVG(digits int) string {
	var b strings.Builder
	for _, sp := range pa.Subpaths {
		for i, pt := range sp.Points {
			if i == 0 {
				b.WriteByte('M')
			} else {
				b.WriteByte('L')
			}
			b.WriteString(formatCoord(pt[0], digits))
			b.WriteByte(',')
			b.WriteString(formatCoord(pt[1], digits))
		}
		if sp.Closed {
			b.WriteByte('Z')
		}
	}
	return b.String()
}

func (pa Path) String() string { return pa.SVG(DefaultDigits) }

func formatCoord(v float64, digits int) string {
	if digits >= 0 {
		pow := math.Pow10(digits)
		v = math.Round(v*pow) / pow
	}
	if v == 0 {
		// drops the sign of negative zero
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
