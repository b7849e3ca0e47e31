package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"expensetracker/internal/core"
	"expensetracker/internal/render"
)

var exporters = map[string]func(io.Writer, []core.Expense, string) error{
	"csv":  render.WriteCSV,
	"xlsx": render.WriteXLSX,
}

func newExportCmd(d *Deps) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <csv|xlsx>",
		Short: "Export every expense, newest first",
		Long: `Export every expense as CSV or as an Excel workbook.
Without -o the file is written to stdout.

Example:
  expensectl export csv > expenses.csv
  expensectl export xlsx -o expenses.xlsx`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"csv", "xlsx"},
		RunE: func(cmd *cobra.Command, args []string) error {
			write, ok := exporters[args[0]]
			if !ok {
				return fmt.Errorf("unknown format %q: must be csv or xlsx", args[0])
			}
			return withEnv(cmd, d, func(env *Env) error {
				records, err := env.Service.List(cmd.Context())
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					return write(cmd.OutOrStdout(), records, env.Currency)
				}
				return writeFile(output, func(w io.Writer) error {
					return write(w, records, env.Currency)
				})
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// writeFile removes a partially written file on failure.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
