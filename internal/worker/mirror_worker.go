// Package worker keeps an external spreadsheet in step with the record store.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/render"
	"expensetracker/internal/sheets"
)

// RecordLister is the read side of the record store the worker needs.
type RecordLister interface {
	ListAll(ctx context.Context) ([]core.Expense, error)
}

// MirrorWorker rebuilds the mirrored table from a full snapshot. Rebuilding
// instead of patching rows makes creates and deletes the same operation and
// heals any missed event.
type MirrorWorker struct {
	store    RecordLister
	writer   sheets.TableWriter
	currency string

	// mu serialises rebuilds triggered by events and the ticker.
	mu sync.Mutex
}

func NewMirrorWorker(store RecordLister, writer sheets.TableWriter, currency string) *MirrorWorker {
	return &MirrorWorker{
		store:    store,
		writer:   writer,
		currency: currency,
	}
}

// HandleEvent is the AMQP handler. Any record change triggers a rebuild.
func (w *MirrorWorker) HandleEvent(ctx context.Context, evt amqp.RecordEvent) error {
	slog.InfoContext(ctx, "Processing record event",
		"event_id", evt.EventID.String(),
		"type", string(evt.Type),
		"record_id", evt.RecordID)

	if err := w.Resync(ctx); err != nil {
		return fmt.Errorf("handle %s for record %d: %w", evt.Type, evt.RecordID, err)
	}
	return nil
}

// Resync writes the header plus every record, newest first.
func (w *MirrorWorker) Resync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	records, err := w.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list expenses: %w", err)
	}

	if err := w.writer.ReplaceTable(ctx, render.Table(records, w.currency)); err != nil {
		return fmt.Errorf("replace mirrored table: %w", err)
	}

	slog.InfoContext(ctx, "Mirror resync completed", "records", len(records))
	return nil
}

// RunPeriodic resyncs immediately and then every interval until ctx is done.
// Failed rounds are logged and retried on the next tick.
func (w *MirrorWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("invalid mirror interval %s", interval)
	}

	if err := w.Resync(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup resync failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic resync", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.Resync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic resync failed", "error", err)
			}
		}
	}
}
