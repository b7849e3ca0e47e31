// Package commands implements the expensectl admin CLI on top of the same
// expense service the web server uses.
package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"expensetracker/internal/core"
)

// NewRootCmd builds the command tree.
func NewRootCmd(d *Deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "expensectl",
		Short: "Manage expense records from the command line",
		Long: `expensectl reads and writes the same store as the expense tracker
web server. Configuration comes from .env, CONFIG_FILE and the environment.

Examples:
  expensectl add 12.50 Food lunch with team --date 2024-03-01
  expensectl list --recent 5
  expensectl delete 42
  expensectl summary
  expensectl export csv -o expenses.csv`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newAddCmd(d),
		newListCmd(d),
		newDeleteCmd(d),
		newSummaryCmd(d),
		newExportCmd(d),
	)
	return root
}

// withEnv opens the environment for the duration of fn.
func withEnv(cmd *cobra.Command, d *Deps, fn func(env *Env) error) (err error) {
	env, err := d.Open(cmd.Context())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if env.Close == nil {
			return
		}
		if cerr := env.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(env)
}

func formatAmount(currency string, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + currency + core.FormatAmount(d.Abs())
	}
	return currency + core.FormatAmount(d)
}
