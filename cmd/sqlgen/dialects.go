package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/sqlgen/dialect"
)

func newDialectsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the supported dialects",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, d := range dialect.All {
				mark := " "
				if d == a.cfg.Dialect {
					mark = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %s\n", mark, d, d.Placeholder(1))
			}
		},
	}
}
