package store

import (
	"context"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// RecordStore persists expense records. Listing operations return records
// newest first (by date, then by id).
type RecordStore interface {
	Insert(ctx context.Context, e core.Expense) (int64, error)
	ListAll(ctx context.Context) ([]core.Expense, error)
	ListRecent(ctx context.Context, n int) ([]core.Expense, error)
	Get(ctx context.Context, id int64) (core.Expense, error)
	// DeleteByID returns core.ErrNotFound when no record has that id.
	DeleteByID(ctx context.Context, id int64) error
	SumAll(ctx context.Context) (decimal.Decimal, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}
