package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"visitmap/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the map over HTTP",
	Long:  `Serves an HTML page with the interactive map, the SVG and PNG documents, the classification as JSON and Prometheus metrics.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("listen"); v != "" {
			a.cfg.Listen = v
		}
		features, err := a.features(cmd.Context())
		if err != nil {
			return err
		}
		resolver, err := a.cfg.Resolver()
		if err != nil {
			return err
		}
		s := server.New(features, resolver, server.Options{
			Canvas:    a.cfg.Canvas(),
			Scale:     a.cfg.Scale,
			Fit:       a.cfg.Fit,
			Padding:   a.cfg.Padding,
			Palette:   a.cfg.RenderPalette(),
			CacheSize: a.cfg.CacheSize,
			Logger:    a.log,
		})

		srv := &http.Server{
			Addr:              a.cfg.Listen,
			Handler:           s.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		serverErrors := make(chan error, 1)
		go func() {
			a.log.Info("listening", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-shutdown:
			a.log.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.log.Warn("graceful shutdown did not complete", "error", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "listen address (overrides the config)")
}
