package commands

import (
	"context"
	"os"

	"expensetracker/internal/cli"
	"expensetracker/internal/services"
)

// Env is what a command needs once configuration has been resolved.
type Env struct {
	Service  *services.ExpenseService
	Currency string
	Close    func() error
}

// Deps holds external dependencies for CLI commands, enabling testability.
type Deps struct {
	Open func(ctx context.Context) (*Env, error)
}

// DefaultDeps opens the backend described by .env, CONFIG_FILE and the
// environment. Logs go to stderr so they never mix with exported data.
func DefaultDeps() *Deps {
	return &Deps{Open: openFromConfig}
}

func openFromConfig(ctx context.Context) (*Env, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cfg, os.Stderr)

	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}
	return &Env{
		Service:  res.Service,
		Currency: cfg.CurrencySymbol,
		Close:    res.Cleanup,
	}, nil
}
