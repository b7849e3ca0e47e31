// Package services holds the application service shared by the web
// handlers and the admin CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/report"
	"expensetracker/internal/store"
)

// RecentLimit is how many records the summary page shows.
const RecentLimit = 5

// EventPublisher announces record changes. The AMQP client implements it.
type EventPublisher interface {
	Publish(ctx context.Context, evt amqp.RecordEvent) error
	Close() error
}

// AddInput carries raw form values.
type AddInput struct {
	Amount      string
	Category    string
	Date        string
	Description string
}

// Summary is what the index page shows.
type Summary struct {
	Total  decimal.Decimal
	Count  int
	Recent []core.Expense
}

// ExpenseService orchestrates expense operations across the record store and
// the optional event publisher.
type ExpenseService struct {
	store     store.RecordStore
	publisher EventPublisher
}

// NewExpenseService wires a service. publisher may be nil.
func NewExpenseService(s store.RecordStore, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		store:     s,
		publisher: publisher,
	}
}

// Add validates raw input, stores the record and announces it.
func (s *ExpenseService) Add(ctx context.Context, in AddInput) (core.Expense, error) {
	e, err := core.NewExpense(in.Amount, in.Category, in.Date, in.Description)
	if err != nil {
		return core.Expense{}, err
	}

	id, err := s.store.Insert(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}
	e.ID = id

	s.publish(ctx, amqp.NewRecordEvent(amqp.ExpenseCreated, id))
	return e, nil
}

// Delete removes a record. It returns core.ErrNotFound for unknown ids.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, amqp.NewRecordEvent(amqp.ExpenseDeleted, id))
	return nil
}

// List returns every record, newest first.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	records, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return records, nil
}

// Recent returns at most n records, newest first.
func (s *ExpenseService) Recent(ctx context.Context, n int) ([]core.Expense, error) {
	records, err := s.store.ListRecent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("list recent expenses: %w", err)
	}
	return records, nil
}

// Summary computes the grand total through report.Total so it always agrees
// with the dashboard.
func (s *ExpenseService) Summary(ctx context.Context) (Summary, error) {
	records, err := s.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	recent := records
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	return Summary{
		Total:  report.Total(records),
		Count:  len(records),
		Recent: recent,
	}, nil
}

// Dashboard aggregates a snapshot of all records.
func (s *ExpenseService) Dashboard(ctx context.Context) (report.Dashboard, error) {
	records, err := s.List(ctx)
	if err != nil {
		return report.Dashboard{}, err
	}
	return report.Build(records), nil
}

// Ping reports whether the store is reachable.
func (s *ExpenseService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publish never fails the caller: the record is already committed.
func (s *ExpenseService) publish(ctx context.Context, evt amqp.RecordEvent) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No event publisher configured, skipping event",
			"type", string(evt.Type), "record_id", evt.RecordID)
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"type", string(evt.Type),
			"record_id", evt.RecordID,
			"error", err)
	}
}

// Close closes both the store and the publisher.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}

	return nil
}
