package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/garyjia/expense-approvals/internal/domain/event"
)

type mockLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, msg)
}

func (m *mockLogger) ErrorCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.errors)
}

func (m *mockLogger) HasInfo(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, info := range m.infos {
		if info == msg {
			return true
		}
	}
	return false
}

func newEvent(t event.Type) *event.Event {
	return event.NewEvent(t, "report-1", "wf-1", nil, time.Now())
}

func noop(ctx context.Context, evt *event.Event) error { return nil }

func TestSubscribe(t *testing.T) {
	t.Run("delivers to every handler of the type in order", func(t *testing.T) {
		d := NewDispatcher()
		var order []int

		d.Subscribe(event.TypeReportSubmitted, func(ctx context.Context, evt *event.Event) error {
			order = append(order, 1)
			return nil
		})
		d.Subscribe(event.TypeReportSubmitted, func(ctx context.Context, evt *event.Event) error {
			order = append(order, 2)
			return nil
		})

		if err := d.Dispatch(context.Background(), newEvent(event.TypeReportSubmitted)); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if len(order) != 2 || order[0] != 1 || order[1] != 2 {
			t.Errorf("expected handlers to run in order [1, 2], got %v", order)
		}
	})

	t.Run("ignores other event types", func(t *testing.T) {
		d := NewDispatcher()
		called := false
		d.Subscribe(event.TypeReportPaid, func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		if err := d.Dispatch(context.Background(), newEvent(event.TypeReportRejected)); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
		if called {
			t.Error("expected handler for report.paid not to be called")
		}
	})

	t.Run("logs registration", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))
		d.SubscribeNamed(event.TypeReportApproved, "audit", noop)

		if !logger.HasInfo("Handler registered") {
			t.Error("expected registration to be logged")
		}
	})
}

func TestSubscribeAll(t *testing.T) {
	d := NewDispatcher()
	var seen []event.Type

	d.SubscribeAll("recorder", func(ctx context.Context, evt *event.Event) error {
		seen = append(seen, evt.Type)
		return nil
	})

	err := d.Dispatch(context.Background(),
		newEvent(event.TypeReportSubmitted),
		newEvent(event.TypeStatusChanged),
		newEvent(event.TypeReportPaid),
	)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	want := []event.Type{event.TypeReportSubmitted, event.TypeStatusChanged, event.TypeReportPaid}
	if len(seen) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestDispatch(t *testing.T) {
	t.Run("runs remaining handlers after a failure", func(t *testing.T) {
		d := NewDispatcher()
		expectedErr := errors.New("handler error")
		called := false

		d.Subscribe(event.TypeReportApproved, func(ctx context.Context, evt *event.Event) error {
			return expectedErr
		})
		d.SubscribeAll("after", func(ctx context.Context, evt *event.Event) error {
			called = true
			return nil
		})

		err := d.Dispatch(context.Background(), newEvent(event.TypeReportApproved))
		if !errors.Is(err, expectedErr) {
			t.Errorf("expected error to wrap %v, got %v", expectedErr, err)
		}
		if !called {
			t.Error("expected second handler to run despite first failure")
		}
	})

	t.Run("skips nil events", func(t *testing.T) {
		d := NewDispatcher()
		d.SubscribeAll("any", noop)
		if err := d.Dispatch(context.Background(), nil, newEvent(event.TypeReportPaid)); err != nil {
			t.Fatalf("dispatch failed: %v", err)
		}
	})

	t.Run("recovers from handler panic", func(t *testing.T) {
		logger := &mockLogger{}
		d := NewDispatcher(WithLogger(logger))

		d.Subscribe(event.TypeReportSubmitted, func(ctx context.Context, evt *event.Event) error {
			panic("test panic")
		})

		if err := d.Dispatch(context.Background(), newEvent(event.TypeReportSubmitted)); err == nil {
			t.Fatal("expected error from panic recovery")
		}
		if logger.ErrorCount() == 0 {
			t.Error("expected panic to be logged as error")
		}
	})

	t.Run("returns ErrClosed after close", func(t *testing.T) {
		d := NewDispatcher()
		if err := d.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
		if err := d.Dispatch(context.Background(), newEvent(event.TypeReportPaid)); !errors.Is(err, ErrClosed) {
			t.Errorf("expected ErrClosed, got %v", err)
		}
		if err := d.Close(); err == nil {
			t.Error("expected second close to fail")
		}
	})
}

func TestListHandlers(t *testing.T) {
	d := NewDispatcher()
	d.SubscribeNamed(event.TypeReportPaid, "payments", noop)
	d.SubscribeNamed(event.TypeReportRejected, "rejections", noop)
	d.SubscribeAll("audit", noop)

	handlers := d.ListHandlers(event.TypeReportPaid)
	if len(handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d", len(handlers))
	}
	if handlers[0].Name != "payments" || handlers[1].Name != "audit" {
		t.Errorf("unexpected handler order: %+v", handlers)
	}
	for _, h := range handlers {
		if h.Handler != nil {
			t.Error("expected handler function not to be exposed")
		}
	}

	if got := d.ListHandlers(event.TypeReportSubmitted); len(got) != 1 {
		t.Errorf("expected only the wildcard handler, got %d", len(got))
	}
}
