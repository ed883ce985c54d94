package main

import (
	"strings"

	"github.com/spf13/cobra"

	"visitmap/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Preview the map in the terminal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		features, err := a.features(cmd.Context())
		if err != nil {
			return err
		}
		resolver, err := a.cfg.Resolver()
		if err != nil {
			return err
		}
		final, err := tui.Run(tui.New(features, resolver, a.cfg.RenderPalette(), a.cfg.Source))
		if err != nil {
			return err
		}
		// Edits made in the preview are printed so they can be pasted into the config.
		a.log.Info("visited countries", "codes", strings.Join(final.Visited().Codes(), ","))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
