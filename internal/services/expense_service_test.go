package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/store/memory"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []amqp.RecordEvent
	err    error
	closed bool
}

func (f *fakePublisher) Publish(_ context.Context, evt amqp.RecordEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func TestExpenseService_Add(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub)

	e, err := svc.Add(ctx, AddInput{Amount: "12.50", Category: " Food ", Date: "2024-03-01", Description: "lunch"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.ID != 1 || e.Category != "Food" || !e.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected record %+v", e)
	}
	if len(pub.events) != 1 || pub.events[0].Type != amqp.ExpenseCreated || pub.events[0].RecordID != 1 {
		t.Fatalf("unexpected events %+v", pub.events)
	}
}

func TestExpenseService_AddValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    AddInput
		field string
	}{
		{"bad amount", AddInput{Amount: "abc", Category: "Food"}, "amount"},
		{"empty amount", AddInput{Amount: "", Category: "Food"}, "amount"},
		{"grouped amount", AddInput{Amount: "1,234", Category: "Food"}, "amount"},
		{"bad date", AddInput{Amount: "1", Category: "Food", Date: "01/02/2024"}, "date"},
		{"empty category", AddInput{Amount: "1", Category: "  "}, "category"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := &fakePublisher{}
			svc := NewExpenseService(memory.New(), pub)

			_, err := svc.Add(context.Background(), tt.in)
			var ve *core.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
			if len(pub.events) != 0 {
				t.Fatal("rejected input must not publish")
			}
			if s, _ := svc.Summary(context.Background()); s.Count != 0 {
				t.Fatal("rejected input must not be stored")
			}
		})
	}
}

func TestExpenseService_PublishFailureIsNotFatal(t *testing.T) {
	svc := NewExpenseService(memory.New(), &fakePublisher{err: errors.New("broker down")})
	if _, err := svc.Add(context.Background(), AddInput{Amount: "3", Category: "Fun"}); err != nil {
		t.Fatalf("add should succeed when publishing fails: %v", err)
	}
}

func TestExpenseService_NilPublisher(t *testing.T) {
	svc := NewExpenseService(memory.New(), nil)
	e, err := svc.Add(context.Background(), AddInput{Amount: "3", Category: "Fun"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Delete(context.Background(), e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestExpenseService_Delete(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub)

	e, _ := svc.Add(ctx, AddInput{Amount: "10", Category: "Food"})

	if err := svc.Delete(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(pub.events) != 2 || pub.events[1].Type != amqp.ExpenseDeleted {
		t.Fatalf("unexpected events %+v", pub.events)
	}
	records, _ := svc.List(ctx)
	if len(records) != 0 {
		t.Fatalf("expected empty store, got %d", len(records))
	}
}

func TestExpenseService_SummaryMatchesDashboard(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(memory.New(), nil)

	inputs := []AddInput{
		{Amount: "100", Category: "Food", Date: "2024-01-15"},
		{Amount: "50", Category: "Food", Date: "2024-02-01"},
		{Amount: "30", Category: "Transport", Date: "2024-01-20"},
		{Amount: "0.10", Category: "Misc", Date: "2024-02-02"},
		{Amount: "0.20", Category: "Misc", Date: "2024-02-03"},
		{Amount: "7", Category: "Misc", Date: "2024-02-04"},
	}
	for _, in := range inputs {
		if _, err := svc.Add(ctx, in); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if !sum.Total.Equal(decimal.RequireFromString("187.3")) {
		t.Fatalf("total = %s", sum.Total)
	}
	if !sum.Total.Equal(dash.Total) || sum.Count != dash.Count {
		t.Fatalf("summary %s/%d disagrees with dashboard %s/%d", sum.Total, sum.Count, dash.Total, dash.Count)
	}
	if len(sum.Recent) != RecentLimit {
		t.Fatalf("expected %d recent, got %d", RecentLimit, len(sum.Recent))
	}
	if sum.Recent[0].Date.String() != "2024-02-04" {
		t.Fatalf("most recent first, got %s", sum.Recent[0].Date)
	}
}

func TestExpenseService_Close(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub)
	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !pub.closed {
		t.Fatal("publisher should be closed")
	}

	empty := &ExpenseService{}
	if err := empty.Close(); err != nil {
		t.Fatalf("Close should not fail with nil components: %v", err)
	}
}
