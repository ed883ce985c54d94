package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"
)

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVG streams instructions into an SVG document. Paths are written in the
// order they are drawn, so later features paint over earlier ones.
type SVG struct {
	out     *errWriter
	canvas  *svg.SVG
	digits  int
	palette Palette
	attrs   bool
	drawn   int
	closed  bool
}

type SVGOption func(*SVG)

// Interactive adds per-country ids, classes, data attributes and a hover
// rule for visited countries.
func Interactive() SVGOption {
	return func(s *SVG) { s.attrs = true }
}

// NewSVG writes the document header and the group carrying stroke and
// fill-rule attributes. Close must be called to finish the document.
func NewSVG(w io.Writer, c Canvas, p Palette, opts ...SVGOption) *SVG {
	out := &errWriter{w: w}
	s := &SVG{out: out, canvas: svg.New(out), digits: c.Digits, palette: p}
	for _, o := range opts {
		o(s)
	}
	width, height := int(math.Round(c.Width)), int(math.Round(c.Height))
	s.canvas.Startview(width, height, 0, 0, width, height)
	if s.attrs {
		s.canvas.Style("text/css", fmt.Sprintf(".country.visited:hover{fill:%s}", p.Hover))
	}
	group := []string{
		`fill-rule="evenodd"`,
		`stroke="` + html.EscapeString(p.Stroke) + `"`,
		`stroke-width="` + strconv.FormatFloat(p.StrokeWidth, 'f', -1, 64) + `"`,
	}
	if s.attrs {
		group = append(group, `class="countries"`)
	}
	s.canvas.Group(group...)
	return s
}

func (s *SVG) Draw(in Instruction) error {
	if s.closed {
		return errSurfaceClosed
	}
	if s.out.err != nil {
		return s.out.err
	}
	attrs := []string{`fill="` + html.EscapeString(in.Fill) + `"`}
	if s.attrs {
		class := "country unvisited"
		if in.Visited {
			class = "country visited"
		}
		attrs = append(attrs, `class="`+class+`"`)
		if in.ID != "" {
			attrs = append(attrs, `data-id="`+html.EscapeString(in.ID)+`"`)
		}
		if in.Code != "" {
			attrs = append(attrs,
				`id="country-`+html.EscapeString(in.Code)+`"`,
				`data-code="`+html.EscapeString(in.Code)+`"`)
		}
		if in.Name != "" {
			attrs = append(attrs, `data-name="`+html.EscapeString(in.Name)+`"`)
		}
	}
	s.canvas.Path(in.Path.SVG(s.digits), attrs...)
	s.drawn++
	return s.out.err
}

// Drawn is the number of paths written so far.
func (s *SVG) Drawn() int { return s.drawn }

// Close ends the group and the document. It is safe to call twice.
func (s *SVG) Close() error {
	if s.closed {
		return s.out.err
	}
	s.closed = true
	s.canvas.Gend()
	s.canvas.End()
	return s.out.err
}
