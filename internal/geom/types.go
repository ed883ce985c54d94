package geom

import "errors"

var (
	ErrNoFeatures        = errors.New("no features found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidScale      = errors.New("projection scale must be a positive finite number")
)

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// extend grows the box to include (x, y). An empty box is seeded by the first point.
func (b *BBox) extend(x, y float64, empty bool) {
	if empty {
		*b = BBox{MinX: x, MinY: y, MaxX: x, MaxY: y}
		return
	}
	if x < b.MinX {
		b.MinX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y > b.MaxY {
		b.MaxY = y
	}
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Ring is a closed sequence of (lon, lat) pairs in degrees.
type Ring [][2]float64

// Polygon holds rings, first outer, following holes.
type Polygon []Ring

// Feature is one country boundary as found in the dataset.
type Feature struct {
	ID       string
	Name     string
	Polygons []Polygon
}

// RingCount returns the number of rings across all polygons.
func (f Feature) RingCount() int {
	n := 0
	for _, p := range f.Polygons {
		n += len(p)
	}
	return n
}

// BBox returns the geographic bounds of the feature and false when it has no coordinates.
func (f Feature) BBox() (BBox, bool) {
	var bb BBox
	seen := false
	for _, poly := range f.Polygons {
		for _, ring := range poly {
			for _, p := range ring {
				bb.extend(p[0], p[1], !seen)
				seen = true
			}
		}
	}
	return bb, seen
}
