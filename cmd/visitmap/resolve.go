package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"visitmap/internal/countries"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve ID...",
	Short: "Resolve dataset identifiers to country codes and visited status",
	Long:  `Prints the country code, name and visited flag of each dataset id. Negative ids such as -99 must follow "--".`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		resolver, err := a.cfg.Resolver()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCODE\tNAME\tVISITED")
		for _, id := range args {
			code, visited := resolver.Classify(id)
			name := countries.Name(code)
			if code == "" {
				code, name = "-", "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%v\n", id, code, name, visited)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
