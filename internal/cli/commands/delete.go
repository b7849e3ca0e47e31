package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newDeleteCmd(d *Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense by id",
		Long: `Delete an expense by its id as shown by "expensectl list".

Example:
  expensectl delete 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id < 1 {
				return fmt.Errorf("invalid id %q: must be a positive integer", args[0])
			}
			return withEnv(cmd, d, func(env *Env) error {
				if err := env.Service.Delete(cmd.Context(), id); err != nil {
					return fmt.Errorf("delete expense #%d: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted expense #%d\n", id)
				return nil
			})
		},
	}
}
