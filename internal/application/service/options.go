package service

import (
	"context"
	"time"

	"github.com/garyjia/expense-approvals/internal/application/dispatcher"
	"github.com/garyjia/expense-approvals/internal/domain/event"
	domainwf "github.com/garyjia/expense-approvals/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type options struct {
	dispatcher dispatcher.Dispatcher
	ids        IDGenerator
	now        func() time.Time
}

// Option configures the application services
type Option func(*options)

// WithDispatcher publishes domain events after each committed change
func WithDispatcher(d dispatcher.Dispatcher) Option {
	return func(o *options) {
		o.dispatcher = d
	}
}

// WithIDGenerator overrides the report, workflow and item ID source
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{
		ids: UUIDGenerator{},
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// publish dispatches events once the store has committed. Failures are logged, never returned.
func (o options) publish(ctx context.Context, logger Logger, events ...*event.Event) {
	if o.dispatcher == nil || len(events) == 0 {
		return
	}
	if err := o.dispatcher.Dispatch(ctx, events...); err != nil {
		logger.Error("Event dispatch failed", "report_id", events[0].ReportID, "error", err)
	}
}

// statusChanged follows up parent with a status change event for the given transition span
func statusChanged(parent *event.Event, from, to domainwf.State, trigger domainwf.Trigger) *event.Event {
	return parent.Related(event.TypeStatusChanged, map[string]interface{}{
		event.KeyFromStatus: from.String(),
		event.KeyToStatus:   to.String(),
		event.KeyTrigger:    trigger.String(),
	})
}
