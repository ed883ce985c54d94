// Package render joins projected country outlines with their visited
// classification and hands the result to a drawing surface.
package render

import (
	"context"
	"errors"
	"log/slog"

	"visitmap/internal/countries"
	"visitmap/internal/geom"
	"visitmap/internal/logging"
)

var errSurfaceClosed = errors.New("render: surface closed")

type Palette struct {
	Visited     string
	Unvisited   string
	Hover       string
	Stroke      string
	StrokeWidth float64
}

var DefaultPalette = Palette{
	Visited:     "#1a1a1a",
	Unvisited:   "#e0dfdc",
	Hover:       "#444444",
	Stroke:      "#f7f7f7",
	StrokeWidth: 0.5,
}

// Fill picks the colour for a classification.
func (p Palette) Fill(visited bool) string {
	if visited {
		return p.Visited
	}
	return p.Unvisited
}

// Canvas is the output extent and coordinate precision of a surface.
type Canvas struct {
	Width  float64
	Height float64
	Digits int
}

// Instruction is one country ready to draw.
type Instruction struct {
	ID      string
	Code    string // empty when the id has no alias
	Name    string
	Visited bool
	Path    geom.Path
	Fill    string
}

type Stats struct {
	Features   int
	Rendered   int
	Skipped    int
	Visited    int
	Unresolved int
}

// Surface consumes instructions. Draw errors abort the pass.
type Surface interface {
	Draw(in Instruction) error
}

// Classifier is the part of countries.Resolver the renderer needs.
type Classifier interface {
	Classify(nativeID string) (code string, visited bool)
}

type Renderer struct {
	classifier Classifier
	projection geom.Projection
	palette    Palette
	log        *slog.Logger
}

type Option func(*Renderer)

func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

func New(classifier Classifier, projection geom.Projection, palette Palette, opts ...Option) *Renderer {
	r := &Renderer{
		classifier: classifier,
		projection: projection,
		palette:    palette,
		log:        logging.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Renderer) Palette() Palette { return r.palette }

// Plan builds one instruction per feature that yields a path. Features
// without a path are skipped and counted; they never fail the pass.
func (r *Renderer) Plan(features []geom.Feature) ([]Instruction, Stats) {
	out := make([]Instruction, 0, len(features))
	st := Stats{Features: len(features)}
	for _, f := range features {
		in, ok := r.instruction(f)
		if !ok {
			st.Skipped++
			r.log.Debug("skipping feature without path", "id", f.ID, "rings", f.RingCount())
			continue
		}
		st.Rendered++
		if in.Code == "" {
			st.Unresolved++
		}
		if in.Visited {
			st.Visited++
		}
		out = append(out, in)
	}
	return out, st
}

func (r *Renderer) instruction(f geom.Feature) (Instruction, bool) {
	path, ok := r.projection.Path(f)
	if !ok {
		return Instruction{}, false
	}
	code, visited := r.classifier.Classify(f.ID)
	name := f.Name
	if name == "" && code != "" {
		name = countries.Name(code)
	}
	return Instruction{
		ID:      f.ID,
		Code:    code,
		Name:    name,
		Visited: visited,
		Path:    path,
		Fill:    r.palette.Fill(visited),
	}, true
}

// Render plans features one at a time and draws them on s. The pass is
// abandoned when ctx is done or the surface fails.
func (r *Renderer) Render(ctx context.Context, s Surface, features []geom.Feature) (Stats, error) {
	st := Stats{Features: len(features)}
	for _, f := range features {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		in, ok := r.instruction(f)
		if !ok {
			st.Skipped++
			r.log.Debug("skipping feature without path", "id", f.ID, "rings", f.RingCount())
			continue
		}
		if err := s.Draw(in); err != nil {
			return st, err
		}
		st.Rendered++
		if in.Code == "" {
			st.Unresolved++
		}
		if in.Visited {
			st.Visited++
		}
	}
	r.log.Debug("render pass done", "features", st.Features, "rendered", st.Rendered,
		"skipped", st.Skipped, "visited", st.Visited, "unresolved", st.Unresolved)
	return st, nil
}
