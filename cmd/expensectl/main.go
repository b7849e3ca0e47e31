package main

import (
	"os"

	"expensetracker/internal/cli/commands"
)

func main() {
	if err := commands.NewRootCmd(commands.DefaultDeps()).Execute(); err != nil {
		os.Exit(1)
	}
}
