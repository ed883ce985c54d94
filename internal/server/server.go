// Package server publishes the rendered map over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image/color"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bluele/gcache"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visitmap/internal/countries"
	"visitmap/internal/geom"
	"visitmap/internal/logging"
	"visitmap/internal/render"
)

const maxCanvas = 8192

var errBadQuery = errors.New("bad query")

// Options describe the default document; width, height and scale may be
// overridden per request.
type Options struct {
	Canvas    render.Canvas
	Scale     float64
	Fit       bool
	Padding   float64
	Palette   render.Palette
	CacheSize int
	Registry  *prometheus.Registry
	Logger    *slog.Logger
}

type Server struct {
	features []geom.Feature
	resolver *countries.Resolver
	opts     Options
	cache    gcache.Cache
	metrics  *metrics
	registry *prometheus.Registry
	log      *slog.Logger
}

func New(features []geom.Feature, resolver *countries.Resolver, opts Options) *Server {
	s := &Server{
		features: features,
		resolver: resolver,
		opts:     opts,
		registry: opts.Registry,
		log:      opts.Logger,
	}
	if s.log == nil {
		s.log = logging.NewNop()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry)
	if opts.CacheSize > 0 {
		s.cache = gcache.New(opts.CacheSize).ARC().Build()
	}
	return s
}

// Handler returns the router serving every endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Get("/map.svg", s.handleSVG)
	r.Get("/map.png", s.handlePNG)
	r.Get("/countries.json", s.handleCountries)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "bytes", ww.BytesWritten(), "took", time.Since(start))
	})
}

// request is a resolved document request.
type request struct {
	format string
	canvas render.Canvas
	proj   geom.Projection
}

func (q request) key() string {
	return fmt.Sprintf("%s|%g|%g|%g|%g|%g", q.format, q.canvas.Width, q.canvas.Height,
		q.proj.Scale, q.proj.Translate[0], q.proj.Translate[1])
}

func (s *Server) parse(r *http.Request, format string) (request, error) {
	q := request{format: format, canvas: s.opts.Canvas}
	num := func(name string, dst *float64, max float64) error {
		v := r.URL.Query().Get(name)
		if v == "" {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f > 0) || f > max {
			return fmt.Errorf("%w: %s=%q", errBadQuery, name, v)
		}
		*dst = f
		return nil
	}
	if err := num("width", &q.canvas.Width, maxCanvas); err != nil {
		return q, err
	}
	if err := num("height", &q.canvas.Height, maxCanvas); err != nil {
		return q, err
	}
	scale := 0.0
	if err := num("scale", &scale, 1e5); err != nil {
		return q, err
	}
	var err error
	switch {
	case scale > 0:
		q.proj, err = geom.NewProjection(scale, q.canvas.Width/2, q.canvas.Height/2)
	case s.opts.Fit:
		q.proj, err = geom.Fit(q.canvas.Width, q.canvas.Height, s.opts.Padding)
	default:
		q.proj, err = geom.NewProjection(s.opts.Scale, q.canvas.Width/2, q.canvas.Height/2)
	}
	if err != nil {
		return q, fmt.Errorf("%w: %v", errBadQuery, err)
	}
	return q, nil
}

// document renders q or returns the cached copy.
func (s *Server) document(r *http.Request, q request) ([]byte, error) {
	key := q.key()
	if s.cache != nil {
		if v, err := s.cache.GetIFPresent(key); err == nil {
			s.metrics.cache.WithLabelValues("hit").Inc()
			return v.([]byte), nil
		}
		s.metrics.cache.WithLabelValues("miss").Inc()
	}

	start := time.Now()
	var buf bytes.Buffer
	rd := render.New(s.resolver, q.proj, s.opts.Palette, render.WithLogger(s.log))
	var (
		st  render.Stats
		err error
	)
	switch q.format {
	case "png":
		var surface *render.PNG
		surface, err = render.NewPNG(&buf, q.canvas, s.opts.Palette, color.White)
		if err != nil {
			return nil, err
		}
		if st, err = rd.Render(r.Context(), surface, s.features); err == nil {
			err = surface.Close()
		}
	default:
		var opts []render.SVGOption
		if q.format != "svg" {
			opts = append(opts, render.Interactive())
		}
		surface := render.NewSVG(&buf, q.canvas, s.opts.Palette, opts...)
		if st, err = rd.Render(r.Context(), surface, s.features); err == nil {
			err = surface.Close()
		}
	}
	if err != nil {
		return nil, err
	}
	s.metrics.observe(q.format, st, time.Since(start))

	doc := buf.Bytes()
	if s.cache != nil {
		if err := s.cache.Set(key, doc); err != nil {
			s.log.Warn("cache set failed", "key", key, "error", err)
		}
	}
	return doc, nil
}

func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, format, contentType string) {
	q, err := s.parse(r, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := s.document(r, q)
	if err != nil {
		s.log.Error("render failed", "format", format, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := w.Write(doc); err != nil {
		s.log.Debug("response write failed", "format", format, "error", err)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	format := "svg"
	if v, _ := strconv.ParseBool(r.URL.Query().Get("interactive")); v {
		format = "svg-interactive"
	}
	s.serveDocument(w, r, format, "image/svg+xml")
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	s.serveDocument(w, r, "png", "image/png")
}

var page = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Visited countries</title>
<style>body{margin:0;font-family:sans-serif}#map svg{display:block;max-width:100%;height:auto}#info{padding:.5em 1em;min-height:1.2em}</style>
</head>
<body>
<div id="map">{{.SVG}}</div>
<div id="info">{{.Visited}} countries visited</div>
<script>
document.querySelectorAll('#map path[data-name]').forEach(function (p) {
  p.addEventListener('mouseenter', function () { document.getElementById('info').textContent = p.dataset.name; });
});
</script>
</body>
</html>
`))

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	q, err := s.parse(r, "svg-interactive")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := s.document(r, q)
	if err != nil {
		s.log.Error("render failed", "format", q.format, "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	if i := bytes.Index(doc, []byte("<svg")); i > 0 {
		doc = doc[i:]
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = page.Execute(w, struct {
		SVG     template.HTML
		Visited int
	}{template.HTML(doc), s.resolver.Visited().Len()})
	if err != nil {
		s.log.Warn("index write failed", "error", err)
	}
}

type countryJSON struct {
	ID      string `json:"id"`
	Code    string `json:"code,omitempty"`
	Name    string `json:"name,omitempty"`
	Visited bool   `json:"visited"`
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	out := struct {
		Visited   []string      `json:"visited"`
		Countries []countryJSON `json:"countries"`
	}{
		Visited:   s.resolver.Visited().Codes(),
		Countries: make([]countryJSON, 0, len(s.features)),
	}
	for _, f := range s.features {
		code, visited := s.resolver.Classify(f.ID)
		name := f.Name
		if name == "" && code != "" {
			name = countries.Name(code)
		}
		out.Countries = append(out.Countries, countryJSON{ID: f.ID, Code: code, Name: name, Visited: visited})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
