// Package config loads the map configuration from YAML and turns it into
// the projection, resolver and palette used by a render pass.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"visitmap/internal/countries"
	"visitmap/internal/geom"
	"visitmap/internal/render"
)

const DefaultSource = "https://unpkg.com/world-atlas@2/countries-110m.json"

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Palette struct {
	Visited     string  `yaml:"visited"`
	Unvisited   string  `yaml:"unvisited"`
	Hover       string  `yaml:"hover"`
	Stroke      string  `yaml:"stroke"`
	StrokeWidth float64 `yaml:"stroke_width"`
}

type Config struct {
	Source      string            `yaml:"source"`
	Object      string            `yaml:"object"`
	Width       float64           `yaml:"width"`
	Height      float64           `yaml:"height"`
	Scale       float64           `yaml:"scale"`
	Fit         bool              `yaml:"fit"`
	Padding     float64           `yaml:"padding"`
	Precision   int               `yaml:"precision"`
	Visited     []string          `yaml:"visited"`
	Aliases     map[string]string `yaml:"aliases"`
	AliasesFile string            `yaml:"aliases_file"`
	Palette     Palette           `yaml:"palette"`
	LogLevel    string            `yaml:"log_level"`
	Listen      string            `yaml:"listen"`
	CacheSize   int               `yaml:"cache_size"`
}

// Default mirrors the published map: a 960x500 canvas at scale 120.
func Default() *Config {
	return &Config{
		Source:    DefaultSource,
		Object:    "countries",
		Width:     960,
		Height:    500,
		Scale:     120,
		Precision: geom.DefaultDigits,
		Visited:   append([]string(nil), countries.DefaultVisited...),
		Palette: Palette{
			Visited:     render.DefaultPalette.Visited,
			Unvisited:   render.DefaultPalette.Unvisited,
			Hover:       render.DefaultPalette.Hover,
			Stroke:      render.DefaultPalette.Stroke,
			StrokeWidth: render.DefaultPalette.StrokeWidth,
		},
		LogLevel:  "info",
		Listen:    ":8080",
		CacheSize: 32,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	errs := new(multierror.Error)
	add := func(format string, args ...any) {
		errs.Errors = append(errs.Errors, fmt.Errorf(format, args...))
	}
	if strings.TrimSpace(c.Source) == "" {
		add("source: must not be empty")
	}
	if !(c.Width > 0) || !(c.Height > 0) {
		add("width/height: must be positive, got %vx%v", c.Width, c.Height)
	}
	if !c.Fit && (!(c.Scale > 0) || math.IsInf(c.Scale, 0)) {
		add("scale: must be positive, got %v", c.Scale)
	}
	if c.Padding < 0 {
		add("padding: must not be negative, got %v", c.Padding)
	}
	if c.Precision < -1 || c.Precision > 10 {
		add("precision: must be within [-1, 10], got %d", c.Precision)
	}
	if _, err := countries.NewSet(c.Visited...); err != nil {
		errs = multierror.Append(errs, err)
	}
	if _, err := countries.MergeAliases(nil, c.Aliases); err != nil {
		errs = multierror.Append(errs, err)
	}
	for _, kv := range [][2]string{
		{"palette.visited", c.Palette.Visited},
		{"palette.unvisited", c.Palette.Unvisited},
		{"palette.hover", c.Palette.Hover},
		{"palette.stroke", c.Palette.Stroke},
	} {
		if !hexColor.MatchString(kv[1]) {
			add("%s: %q is not a hex colour", kv[0], kv[1])
		}
	}
	if c.Palette.StrokeWidth < 0 {
		add("palette.stroke_width: must not be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		add("log_level: %v", err)
	}
	if c.CacheSize < 0 {
		add("cache_size: must not be negative")
	}
	return errs.ErrorOrNil()
}

// Projection returns the configured projection, centred on the canvas.
func (c *Config) Projection() (geom.Projection, error) {
	if c.Fit {
		return geom.Fit(c.Width, c.Height, c.Padding)
	}
	return geom.NewProjection(c.Scale, c.Width/2, c.Height/2)
}

// Resolver merges the embedded alias table with aliases_file and aliases,
// in that order, and binds the visited set.
func (c *Config) Resolver() (*countries.Resolver, error) {
	visited, err := countries.NewSet(c.Visited...)
	if err != nil {
		return nil, err
	}
	aliases := countries.DefaultAliases()
	if c.AliasesFile != "" {
		fromFile, err := countries.LoadAliases(c.AliasesFile)
		if err != nil {
			return nil, err
		}
		if aliases, err = countries.MergeAliases(aliases, fromFile); err != nil {
			return nil, fmt.Errorf("%s: %w", c.AliasesFile, err)
		}
	}
	if aliases, err = countries.MergeAliases(aliases, c.Aliases); err != nil {
		return nil, err
	}
	return countries.NewResolver(aliases, visited), nil
}

func (c *Config) RenderPalette() render.Palette {
	return render.Palette{
		Visited:     c.Palette.Visited,
		Unvisited:   c.Palette.Unvisited,
		Hover:       c.Palette.Hover,
		Stroke:      c.Palette.Stroke,
		StrokeWidth: c.Palette.StrokeWidth,
	}
}

// Canvas returns the render canvas options for this config.
func (c *Config) Canvas() render.Canvas {
	return render.Canvas{Width: c.Width, Height: c.Height, Digits: c.Precision}
}

// ParseLevel maps debug|info|warn|error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.New("unknown level " + s)
	}
	return l, nil
}
