package amqp

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("broken pipe"), true},
		{"closed network connection", errors.New("use of closed network connection"), true},
		{"other error", errors.New("some other error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	client := &Client{exchangeName: "test_exchange", queueName: "test_queue"}

	t.Run("initial state is closed", func(t *testing.T) {
		if client.isCircuitOpen() {
			t.Error("circuit breaker should be closed initially")
		}
	})

	t.Run("multiple failures open circuit", func(t *testing.T) {
		for i := 0; i < maxFailures; i++ {
			client.recordFailure()
		}
		if !client.isCircuitOpen() {
			t.Error("circuit breaker should be open after max failures")
		}
	})

	t.Run("record success resets state", func(t *testing.T) {
		client.recordSuccess()
		if client.isCircuitOpen() {
			t.Error("circuit breaker should be closed after success")
		}
		if atomic.LoadInt64(&client.failureCount) != 0 {
			t.Error("failure count should be reset")
		}
	})

	t.Run("half-open after timeout", func(t *testing.T) {
		atomic.StoreInt32(&client.state, StateOpen)
		client.lastFailure = time.Now().Add(-openTimeout - time.Second)
		if client.isCircuitOpen() {
			t.Error("circuit should go half-open after timeout")
		}
		if atomic.LoadInt32(&client.state) != StateHalfOpen {
			t.Error("state should be StateHalfOpen")
		}
	})

	t.Run("failure while half-open reopens", func(t *testing.T) {
		client.recordFailure()
		if !client.isCircuitOpen() {
			t.Error("circuit should reopen on half-open failure")
		}
	})
}

func TestClient_PublishFailsFast(t *testing.T) {
	client := &Client{exchangeName: "test_exchange", queueName: "test_queue"}
	evt := NewRecordEvent(ExpenseCreated, 1)

	atomic.StoreInt32(&client.state, StateOpen)
	client.lastFailure = time.Now()
	if err := client.Publish(context.Background(), evt); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	client.recordSuccess()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.Publish(ctx, evt); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRecordEvent_JSON(t *testing.T) {
	evt := RecordEvent{
		EventID:   uuid.MustParse("6f1c2b7e-8a9d-4c3e-9b1a-2d3e4f5a6b7c"),
		Type:      ExpenseDeleted,
		RecordID:  42,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := evt.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(body), `"type":"expense.deleted"`) {
		t.Fatalf("unexpected body %s", body)
	}

	parsed, err := RecordEventFromJSON(body)
	if err != nil {
		t.Fatalf("RecordEventFromJSON() error = %v", err)
	}
	if parsed != evt {
		t.Fatalf("parsed %+v, want %+v", parsed, evt)
	}
}

func TestRecordEventFromJSON_Invalid(t *testing.T) {
	for _, body := range []string{
		`{"record_id": "nope"}`,
		`{"type": "expense.renamed", "record_id": 1}`,
		`not json`,
	} {
		if _, err := RecordEventFromJSON([]byte(body)); err == nil {
			t.Errorf("expected error for %s", body)
		}
	}
}

func TestNewRecordEvent(t *testing.T) {
	a := NewRecordEvent(ExpenseCreated, 7)
	b := NewRecordEvent(ExpenseCreated, 7)
	if a.EventID == b.EventID {
		t.Fatal("event ids should be unique")
	}
	if a.RecordID != 7 || a.Type != ExpenseCreated || a.Timestamp.IsZero() {
		t.Fatalf("unexpected event %+v", a)
	}
}

type fakeAck struct {
	acked    bool
	nacked   bool
	requeued bool
}

func (f *fakeAck) Ack(bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(_ bool, requeue bool) error {
	f.nacked = true
	f.requeued = requeue
	return nil
}

func TestSettle(t *testing.T) {
	good, _ := NewRecordEvent(ExpenseCreated, 3).ToJSON()
	ok := func(context.Context, RecordEvent) error { return nil }
	fail := func(context.Context, RecordEvent) error { return errors.New("sheet unavailable") }

	tests := []struct {
		name        string
		body        []byte
		handler     Handler
		wantAck     bool
		wantRequeue bool
		wantNack    bool
	}{
		{name: "handled", body: good, handler: ok, wantAck: true},
		{name: "bad body dropped", body: []byte("{"), handler: ok, wantNack: true},
		{name: "handler failure requeued", body: good, handler: fail, wantNack: true, wantRequeue: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &fakeAck{}
			settle(context.Background(), tt.body, ack, tt.handler)
			if ack.acked != tt.wantAck || ack.nacked != tt.wantNack || ack.requeued != tt.wantRequeue {
				t.Fatalf("got %+v", ack)
			}
		})
	}
}
