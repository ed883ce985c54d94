package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project LON LAT",
	Short: "Print the screen position of a geographic coordinate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		lon, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("longitude: %w", err)
		}
		lat, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("latitude: %w", err)
		}
		proj, err := a.cfg.Projection()
		if err != nil {
			return err
		}
		x, y := proj.Project(lon, lat)
		fmt.Fprintf(cmd.OutOrStdout(), "%g %g\n", x, y)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
}
