package render

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visitmap/internal/countries"
	"visitmap/internal/geom"
)

func square(x0, y0, x1, y1 float64) geom.Ring {
	return geom.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	visited, err := countries.NewSet(countries.DefaultVisited...)
	require.NoError(t, err)
	proj, err := geom.NewProjection(120, 480, 250)
	require.NoError(t, err)
	return New(countries.NewResolver(nil, visited), proj, DefaultPalette)
}

type recorder struct {
	got  []Instruction
	fail error
}

func (r *recorder) Draw(in Instruction) error {
	if r.fail != nil {
		return r.fail
	}
	r.got = append(r.got, in)
	return nil
}

func TestPlanFrance(t *testing.T) {
	r := testRenderer(t)
	ins, st := r.Plan([]geom.Feature{{ID: "250", Polygons: []geom.Polygon{{square(0, 0, 1, 1)}}}})

	require.Len(t, ins, 1)
	in := ins[0]
	assert.Equal(t, "FR", in.Code)
	assert.Equal(t, "France", in.Name)
	assert.True(t, in.Visited)
	assert.Equal(t, "#1a1a1a", in.Fill)
	require.Len(t, in.Path.Subpaths, 1)
	assert.Len(t, in.Path.Subpaths[0].Points, 5)
	assert.True(t, in.Path.Subpaths[0].Closed)
	assert.Equal(t, "M480,250L481.824,250L481.824,247.89L480,247.89L480,250Z", in.Path.String())
	assert.Equal(t, Stats{Features: 1, Rendered: 1, Visited: 1}, st)
}

func TestPlanClassification(t *testing.T) {
	r := testRenderer(t)
	features := []geom.Feature{
		{ID: "392", Name: "Japan", Polygons: []geom.Polygon{{square(130, 30, 140, 40)}}},
		{ID: "999", Polygons: []geom.Polygon{{square(10, 10, 20, 20)}}},
		{ID: "840", Polygons: []geom.Polygon{{square(-100, 30, -90, 40)}}},
		{ID: "010"},
	}
	ins, st := r.Plan(features)
	require.Len(t, ins, 3)

	assert.Equal(t, "JP", ins[0].Code)
	assert.False(t, ins[0].Visited)
	assert.Equal(t, DefaultPalette.Unvisited, ins[0].Fill)

	assert.Empty(t, ins[1].Code)
	assert.False(t, ins[1].Visited)
	assert.Equal(t, DefaultPalette.Unvisited, ins[1].Fill)

	assert.Equal(t, "US", ins[2].Code)
	assert.Equal(t, DefaultPalette.Visited, ins[2].Fill)

	assert.Equal(t, Stats{Features: 4, Rendered: 3, Skipped: 1, Visited: 1, Unresolved: 1}, st)
}

func TestRenderMatchesPlan(t *testing.T) {
	r := testRenderer(t)
	features := []geom.Feature{
		{ID: "250", Polygons: []geom.Polygon{{square(0, 0, 1, 1)}}},
		{ID: "-99", Polygons: []geom.Polygon{{square(20, 42, 21, 43)}}},
		{ID: "404"},
	}
	want, wantStats := r.Plan(features)

	rec := &recorder{}
	st, err := r.Render(context.Background(), rec, features)
	require.NoError(t, err)
	assert.Equal(t, want, rec.got)
	assert.Equal(t, wantStats, st)
}

func TestRenderStops(t *testing.T) {
	r := testRenderer(t)
	features := []geom.Feature{{ID: "250", Polygons: []geom.Polygon{{square(0, 0, 1, 1)}}}}

	boom := errors.New("boom")
	_, err := r.Render(context.Background(), &recorder{fail: boom}, features)
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	_, err = r.Render(ctx, rec, features)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.got)
}

func TestSVG(t *testing.T) {
	r := testRenderer(t)
	features := []geom.Feature{
		{ID: "250", Name: "France", Polygons: []geom.Polygon{{square(0, 0, 1, 1)}}},
		{ID: "392", Polygons: []geom.Polygon{{square(130, 30, 140, 40)}}},
	}

	var buf bytes.Buffer
	s := NewSVG(&buf, Canvas{Width: 960, Height: 500, Digits: 3}, DefaultPalette, Interactive())
	_, err := r.Render(context.Background(), s, features)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 2, s.Drawn())

	out := buf.String()
	assert.Contains(t, out, `viewBox="0 0 960 500"`)
	assert.Contains(t, out, `fill-rule="evenodd"`)
	assert.Contains(t, out, `stroke="#f7f7f7"`)
	assert.Contains(t, out, `stroke-width="0.5"`)
	assert.Contains(t, out, ".country.visited:hover{fill:#444444}")
	assert.Contains(t, out, `d="M480,250L481.824,250L481.824,247.89L480,247.89L480,250Z"`)
	assert.Contains(t, out, `id="country-FR"`)
	assert.Contains(t, out, `class="country visited"`)
	assert.Contains(t, out, `data-code="JP"`)
	assert.True(t, strings.Index(out, `data-code="FR"`) < strings.Index(out, `data-code="JP"`), "draw order is kept")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))

	assert.ErrorIs(t, s.Draw(Instruction{}), errSurfaceClosed)
}

func TestSVGPlain(t *testing.T) {
	var buf bytes.Buffer
	s := NewSVG(&buf, Canvas{Width: 100, Height: 50, Digits: 1}, DefaultPalette)
	ins, _ := testRenderer(t).Plan([]geom.Feature{{ID: "250", Polygons: []geom.Polygon{{square(0, 0, 1, 1)}}}})
	require.NoError(t, s.Draw(ins[0]))
	require.NoError(t, s.Close())

	out := buf.String()
	assert.NotContains(t, out, "<style")
	assert.NotContains(t, out, "data-code")
	assert.Contains(t, out, `d="M480,250L481.8,250L481.8,247.9L480,247.9L480,250Z"`)
}

func TestPNG(t *testing.T) {
	r := testRenderer(t)
	features := []geom.Feature{{ID: "250", Polygons: []geom.Polygon{{square(-20, -10, 20, 10)}}}}

	var buf bytes.Buffer
	s, err := NewPNG(&buf, Canvas{Width: 960, Height: 500, Digits: 3}, DefaultPalette, color.White)
	require.NoError(t, err)
	_, err = r.Render(context.Background(), s, features)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 960, img.Bounds().Dx())
	assert.Equal(t, 500, img.Bounds().Dy())

	cr, cg, cb, ca := img.At(480, 250).RGBA()
	for _, v := range []uint32{cr, cg, cb} {
		assert.InDelta(t, 0x1a1a, v, 0x200)
	}
	assert.Equal(t, uint32(0xffff), ca)

	br, bg, bb, _ := img.At(5, 5).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{br, bg, bb})
}

func TestNewPNGInvalidCanvas(t *testing.T) {
	_, err := NewPNG(&bytes.Buffer{}, Canvas{Width: 0, Height: 10}, DefaultPalette, nil)
	assert.Error(t, err)
}
