package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"expensetracker/internal/core"
)

func newListCmd(d *Deps) *cobra.Command {
	var recent int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("recent") && recent < 1 {
				return fmt.Errorf("--recent must be at least 1 (got %d)", recent)
			}
			return withEnv(cmd, d, func(env *Env) error {
				var (
					records []core.Expense
					err     error
				)
				if recent > 0 {
					records, err = env.Service.Recent(cmd.Context(), recent)
				} else {
					records, err = env.Service.List(cmd.Context())
				}
				if err != nil {
					return err
				}
				return printRecords(cmd.OutOrStdout(), records, env.Currency)
			})
		},
	}

	cmd.Flags().IntVarP(&recent, "recent", "n", 0, "show only the N most recent expenses")
	return cmd
}

func printRecords(out io.Writer, records []core.Expense, currency string) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "No expenses recorded.")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDate\tCategory\tAmount\tDescription")
	for _, e := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date, e.Category, formatAmount(currency, e.Amount), e.Description)
	}
	return tw.Flush()
}
