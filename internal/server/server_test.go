package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visitmap/internal/countries"
	"visitmap/internal/geom"
	"visitmap/internal/logging"
	"visitmap/internal/render"
)

func square(x0, y0, x1, y1 float64) geom.Ring {
	return geom.Ring{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
}

func newTestServer(t *testing.T, cacheSize int) (*Server, http.Handler) {
	t.Helper()
	visited, err := countries.NewSet("FR", "XK")
	require.NoError(t, err)
	features := []geom.Feature{
		{ID: "250", Name: "France", Polygons: []geom.Polygon{{square(0, 0, 1, 1)}}},
		{ID: "392", Polygons: []geom.Polygon{{square(130, 30, 140, 40)}}},
		{ID: "-99", Polygons: []geom.Polygon{{square(20, 42, 21, 43)}}},
		{ID: "999", Polygons: []geom.Polygon{{square(-60, -10, -50, 0)}}},
	}
	s := New(features, countries.NewResolver(nil, visited), Options{
		Canvas:    render.Canvas{Width: 960, Height: 500, Digits: 3},
		Scale:     120,
		Palette:   render.DefaultPalette,
		CacheSize: cacheSize,
		Registry:  prometheus.NewRegistry(),
	})
	return s, s.Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t, 0)
	rr := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestMapSVG(t *testing.T) {
	_, h := newTestServer(t, 0)

	rr := get(t, h, "/map.svg")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	body := rr.Body.String()
	assert.Contains(t, body, `viewBox="0 0 960 500"`)
	assert.Contains(t, body, `d="M480,250L481.824,250L481.824,247.89L480,247.89L480,250Z"`)
	assert.Equal(t, 4, strings.Count(body, "<path"))
	assert.NotContains(t, body, "<style")

	rr = get(t, h, "/map.svg?interactive=true&width=480&height=250&scale=60")
	require.Equal(t, http.StatusOK, rr.Code)
	body = rr.Body.String()
	assert.Contains(t, body, `viewBox="0 0 480 250"`)
	assert.Contains(t, body, `id="country-XK"`)
	assert.Contains(t, body, `class="country unvisited"`)
	assert.Contains(t, body, "<style")
}

func TestMapBadQuery(t *testing.T) {
	_, h := newTestServer(t, 0)
	for _, q := range []string{"scale=-1", "scale=abc", "width=0", "height=100000"} {
		t.Run(q, func(t *testing.T) {
			rr := get(t, h, "/map.svg?"+q)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestMapPNG(t *testing.T) {
	_, h := newTestServer(t, 0)
	rr := get(t, h, "/map.png?width=200&height=100&scale=30")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))

	img, err := png.Decode(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestCache(t *testing.T) {
	s, h := newTestServer(t, 4)

	first := get(t, h, "/map.svg").Body.String()
	second := get(t, h, "/map.svg").Body.String()
	assert.Equal(t, first, second)
	get(t, h, "/map.svg?scale=60")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.cache.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.cache.WithLabelValues("miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.metrics.renders.WithLabelValues("svg")))
}

func TestIndex(t *testing.T) {
	_, h := newTestServer(t, 0)
	rr := get(t, h, "/")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<!DOCTYPE html>")
	assert.Contains(t, body, "<svg")
	assert.NotContains(t, body, "<?xml")
	assert.Contains(t, body, ".country.visited:hover{fill:#444444}")
	assert.Contains(t, body, "2 countries visited")
}

func TestCountriesJSON(t *testing.T) {
	_, h := newTestServer(t, 0)
	rr := get(t, h, "/countries.json")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Visited   []string      `json:"visited"`
		Countries []countryJSON `json:"countries"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"FR", "XK"}, resp.Visited)
	assert.Equal(t, []countryJSON{
		{ID: "250", Code: "FR", Name: "France", Visited: true},
		{ID: "392", Code: "JP", Name: "Japan", Visited: false},
		{ID: "-99", Code: "XK", Name: "Kosovo", Visited: true},
		{ID: "999"},
	}, resp.Countries)
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t, 0)
	get(t, h, "/map.svg")
	rr := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `visitmap_renders_total{format="svg"} 1`)
	assert.Contains(t, rr.Body.String(), `visitmap_features_total{outcome="unresolved"} 1`)
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestMapWriteFailureLogged(t *testing.T) {
	var logs bytes.Buffer
	s := New([]geom.Feature{
		{ID: "250", Polygons: []geom.Polygon{{square(0, 0, 1, 1)}}},
	}, countries.NewResolver(nil, countries.Set{}), Options{
		Canvas:   render.Canvas{Width: 960, Height: 500, Digits: 3},
		Scale:    120,
		Palette:  render.DefaultPalette,
		Registry: prometheus.NewRegistry(),
		Logger:   logging.NewWriter(&logs, slog.LevelDebug, true),
	})

	req := httptest.NewRequest(http.MethodGet, "/map.svg", nil)
	s.Handler().ServeHTTP(brokenWriter{httptest.NewRecorder()}, req)

	assert.Contains(t, logs.String(), "response write failed")
	assert.Contains(t, logs.String(), "connection reset")
}
