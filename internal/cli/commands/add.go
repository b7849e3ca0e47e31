package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"expensetracker/internal/services"
)

func newAddCmd(d *Deps) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add <amount> <category> [description...]",
		Short: "Record a new expense",
		Long: `Record a new expense. The date defaults to today.

Example:
  expensectl add 12.50 Food
  expensectl add 1200 Rent March rent --date 2024-03-01`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := services.AddInput{
				Amount:      args[0],
				Category:    args[1],
				Date:        date,
				Description: strings.Join(args[2:], " "),
			}
			return withEnv(cmd, d, func(env *Env) error {
				e, err := env.Service.Add(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added expense #%d: %s %s on %s\n",
					e.ID, formatAmount(env.Currency, e.Amount), e.Category, e.Date)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "expense date as YYYY-MM-DD (default today)")
	return cmd
}
