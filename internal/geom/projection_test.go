package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaturalEarthExtent(t *testing.T) {
	p := Projection{Scale: 1}
	x, y := p.Project(180, 0)
	assert.InDelta(t, 2.735384723480633, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)

	x, y = p.Project(0, 90)
	assert.InDelta(t, 0, x, 1e-12)
	assert.InDelta(t, -1.422390506730596, y, 1e-12)
}

func TestProjectAppliesScaleAndTranslate(t *testing.T) {
	p, err := NewProjection(120, 480, 250)
	require.NoError(t, err)

	x, y := p.Project(0, 0)
	assert.Equal(t, 480.0, x)
	assert.Equal(t, 250.0, y)

	x, y = p.Project(1, 1)
	assert.InDelta(t, 481.8235056117927, x, 1e-9)
	assert.InDelta(t, 247.89046117453196, y, 1e-9)
}

func TestProjectDeterministic(t *testing.T) {
	p := Projection{Scale: 175.3, Translate: [2]float64{480, 250}}
	for _, c := range [][2]float64{{2.35, 48.85}, {-74, 40.7}, {151.2, -33.9}, {-180, -90}} {
		x1, y1 := p.Project(c[0], c[1])
		x2, y2 := p.Project(c[0], c[1])
		assert.Equal(t, x1, x2)
		assert.Equal(t, y1, y2)
	}
}

func TestProjectTotalOnValidInput(t *testing.T) {
	p := Projection{Scale: 120, Translate: [2]float64{480, 250}}
	for lon := -180.0; lon <= 180; lon += 7.5 {
		for lat := -90.0; lat <= 90; lat += 7.5 {
			x, y := p.Project(lon, lat)
			require.Falsef(t, math.IsNaN(x) || math.IsInf(x, 0), "x at %v,%v", lon, lat)
			require.Falsef(t, math.IsNaN(y) || math.IsInf(y, 0), "y at %v,%v", lon, lat)
		}
	}
}

func TestProjectInvalidInput(t *testing.T) {
	p := Projection{Scale: 120}
	cases := map[string][2]float64{
		"nan lon":   {math.NaN(), 0},
		"nan lat":   {0, math.NaN()},
		"inf lon":   {math.Inf(1), 0},
		"lon > 180": {180.5, 0},
		"lat < -90": {0, -91},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			x, y := p.Project(c[0], c[1])
			assert.True(t, math.IsNaN(x))
			assert.True(t, math.IsNaN(y))
		})
	}
}

func TestScaleDoublesDistances(t *testing.T) {
	p1 := Projection{Scale: 100}
	p2 := Projection{Scale: 200}
	a := [2]float64{-3.7, 40.4}
	b := [2]float64{139.7, 35.7}

	dist := func(p Projection) float64 {
		ax, ay := p.Project(a[0], a[1])
		bx, by := p.Project(b[0], b[1])
		return math.Hypot(bx-ax, by-ay)
	}
	assert.InDelta(t, 2*dist(p1), dist(p2), 1e-9)

	x1, y1 := p1.Project(a[0], a[1])
	x2, y2 := p2.Project(a[0], a[1])
	assert.InDelta(t, 2*math.Hypot(x1, y1), math.Hypot(x2, y2), 1e-9)
}

func TestNewProjectionRejectsScale(t *testing.T) {
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewProjection(s, 0, 0)
		assert.ErrorIs(t, err, ErrInvalidScale)
	}
}

func TestFit(t *testing.T) {
	p, err := Fit(960, 500, 10)
	require.NoError(t, err)
	assert.Equal(t, [2]float64{480, 250}, p.Translate)

	bb := p.Bounds()
	assert.GreaterOrEqual(t, bb.MinX, 10-1e-9)
	assert.GreaterOrEqual(t, bb.MinY, 10-1e-9)
	assert.LessOrEqual(t, bb.MaxX, 950+1e-9)
	assert.LessOrEqual(t, bb.MaxY, 490+1e-9)
	// 960x500 is wider than the globe's aspect, so height is the binding side
	assert.InDelta(t, 480, bb.Height(), 1e-9)

	_, err = Fit(10, 10, 5)
	assert.ErrorIs(t, err, ErrInvalidScale)
}
