package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"visitmap/internal/config"
	"visitmap/internal/geom"
	"visitmap/internal/logging"
	"visitmap/internal/render"
)

var rootCmd = &cobra.Command{
	Use:           "visitmap",
	Short:         "Render a world map of visited countries",
	Long:          `visitmap projects world country outlines with the Natural Earth projection and fills the countries you have visited.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "visitmap:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("source", "", "dataset path or URL (overrides the config)")
}

// app is the state shared by every subcommand.
type app struct {
	cfg *config.Config
	log *slog.Logger
}

func loadApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetString("source"); v != "" {
		cfg.Source = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	level, _ := config.ParseLevel(cfg.LogLevel)
	return &app{cfg: cfg, log: logging.New(level)}, nil
}

// features loads the dataset once; no render pass starts without it.
func (a *app) features(ctx context.Context) ([]geom.Feature, error) {
	start := time.Now()
	features, err := geom.Load(ctx, a.cfg.Source, a.cfg.Object)
	if err != nil {
		a.log.Error("dataset unavailable", "source", a.cfg.Source, "error", err)
		return nil, err
	}
	a.log.Info("dataset loaded", "source", a.cfg.Source, "features", len(features), "took", time.Since(start))
	return features, nil
}

func (a *app) renderer() (*render.Renderer, error) {
	proj, err := a.cfg.Projection()
	if err != nil {
		return nil, err
	}
	resolver, err := a.cfg.Resolver()
	if err != nil {
		return nil, err
	}
	return render.New(resolver, proj, a.cfg.RenderPalette(), render.WithLogger(a.log)), nil
}
