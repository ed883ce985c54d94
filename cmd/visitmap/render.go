package main

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"visitmap/internal/render"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the map as SVG or PNG",
	Long:  `Loads the dataset, classifies every country and writes the map to a file or stdout. The format follows --format, else the output extension, else SVG.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		interactive, _ := cmd.Flags().GetBool("interactive")
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(out)), ".")
		}
		if format == "" {
			format = "svg"
		}
		if format != "svg" && format != "png" {
			return fmt.Errorf("unknown format %q", format)
		}

		features, err := a.features(cmd.Context())
		if err != nil {
			return err
		}
		rd, err := a.renderer()
		if err != nil {
			return err
		}

		var (
			w io.Writer = cmd.OutOrStdout()
			f *os.File
		)
		if out != "" && out != "-" {
			if f, err = os.Create(out); err != nil {
				return err
			}
			// Only covers the early returns; the result of the second Close is ignored.
			defer f.Close()
			w = f
		}

		canvas := a.cfg.Canvas()
		var surface interface {
			render.Surface
			Close() error
		}
		if format == "png" {
			surface, err = render.NewPNG(w, canvas, rd.Palette(), color.White)
			if err != nil {
				return err
			}
		} else {
			var opts []render.SVGOption
			if interactive {
				opts = append(opts, render.Interactive())
			}
			surface = render.NewSVG(w, canvas, rd.Palette(), opts...)
		}
		st, err := rd.Render(cmd.Context(), surface, features)
		if err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if err := surface.Close(); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		if f != nil {
			if err := f.Close(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
		}
		a.log.Info("map rendered", "format", format, "output", out,
			"rendered", st.Rendered, "skipped", st.Skipped, "visited", st.Visited, "unresolved", st.Unresolved)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("output", "o", "", "output file (stdout when empty)")
	renderCmd.Flags().StringP("format", "f", "", "svg or png")
	renderCmd.Flags().Bool("interactive", false, "add ids, classes and the hover rule to the SVG")
}
