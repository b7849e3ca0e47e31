package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the total, the count and the most recent expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, d, func(env *Env) error {
				sum, err := env.Service.Summary(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total: %s\n", formatAmount(env.Currency, sum.Total))
				fmt.Fprintf(out, "Count: %d\n", sum.Count)
				if sum.Count == 0 {
					return nil
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Recent:")
				return printRecords(out, sum.Recent, env.Currency)
			})
		},
	}
}
