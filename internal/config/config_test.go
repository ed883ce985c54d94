package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visitmap/internal/render"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultSource, cfg.Source)
	assert.Len(t, cfg.Visited, 37)
	assert.Equal(t, render.DefaultPalette, cfg.RenderPalette())
	assert.Equal(t, render.Canvas{Width: 960, Height: 500, Digits: 3}, cfg.Canvas())

	proj, err := cfg.Projection()
	require.NoError(t, err)
	assert.Equal(t, 120.0, proj.Scale)
	assert.Equal(t, [2]float64{480, 250}, proj.Translate)
}

func TestLoad(t *testing.T) {
	p := writeFile(t, "map.yaml", `
source: ./world.json
width: 800
height: 400
scale: 100
visited: [jp, fr]
aliases:
  "-99": XK
palette:
  visited: "#ff0000"
log_level: debug
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "./world.json", cfg.Source)
	assert.Equal(t, "countries", cfg.Object, "unset keys keep their defaults")
	assert.Equal(t, []string{"jp", "fr"}, cfg.Visited)
	assert.Equal(t, "#ff0000", cfg.Palette.Visited)
	assert.Equal(t, render.DefaultPalette.Unvisited, cfg.Palette.Unvisited)

	proj, err := cfg.Projection()
	require.NoError(t, err)
	assert.Equal(t, [2]float64{400, 200}, proj.Translate)

	lvl, err := ParseLevel(cfg.LogLevel)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	r, err := cfg.Resolver()
	require.NoError(t, err)
	assert.True(t, r.IsVisited("JP"))
	assert.False(t, r.IsVisited("GB"))
}

func TestLoadErrors(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.yaml", "width: [1, 2\n"))
	assert.Error(t, err)
}

func TestValidateReportsEverything(t *testing.T) {
	cfg := Default()
	cfg.Source = " "
	cfg.Width = 0
	cfg.Scale = -1
	cfg.Visited = []string{"FRA"}
	cfg.Palette.Hover = "grey"
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"source", "width/height", "scale", `"FRA"`, "palette.hover", "log_level", "6 errors occurred"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestFitProjection(t *testing.T) {
	cfg := Default()
	cfg.Fit = true
	cfg.Scale = 0
	require.NoError(t, cfg.Validate())

	proj, err := cfg.Projection()
	require.NoError(t, err)
	b := proj.Bounds()
	assert.InDelta(t, 0, b.MinX, 1e-6)
	assert.LessOrEqual(t, b.MaxX, 960+1e-6)
	assert.LessOrEqual(t, b.MaxY, 500+1e-6)
}

func TestResolverAliasesFile(t *testing.T) {
	cfg := Default()
	cfg.AliasesFile = writeFile(t, "aliases.csv", "iso_n3,iso_a2\n-99,SO\n")
	cfg.Aliases = map[string]string{"-98": "cy"}

	r, err := cfg.Resolver()
	require.NoError(t, err)

	code, ok := r.Resolve("-99")
	require.True(t, ok)
	assert.Equal(t, "SO", code)
	code, _ = r.Resolve("-98")
	assert.Equal(t, "CY", code)
	code, _ = r.Resolve("250")
	assert.Equal(t, "FR", code)

	cfg.AliasesFile = writeFile(t, "broken.csv", "iso_n3,iso_a2\n1,USA\n")
	_, err = cfg.Resolver()
	assert.Error(t, err)
}
