package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/expense-approvals/internal/domain/event"
)

// ErrClosed is returned when publishing to a closed dispatcher
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher fans committed workflow events out to subscribers
type Dispatcher interface {
	// Subscribe registers a handler for one event type
	Subscribe(eventType event.Type, handler Handler)

	// SubscribeNamed registers a named handler for one event type
	SubscribeNamed(eventType event.Type, name string, handler Handler)

	// SubscribeAll registers a named handler that receives every event type
	SubscribeAll(name string, handler Handler)

	// Dispatch delivers the events in order. Every handler runs even when an
	// earlier one fails; the failures are joined into the returned error.
	Dispatch(ctx context.Context, events ...*event.Event) error

	// ListHandlers returns the handlers that would receive the event type
	ListHandlers(eventType event.Type) []HandlerInfo

	// Close rejects further dispatches
	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Type][]HandlerInfo
	logger   Logger
	closed   atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers: make(map[event.Type][]HandlerInfo),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *eventDispatcher) Subscribe(eventType event.Type, handler Handler) {
	d.mu.RLock()
	name := fmt.Sprintf("%s-handler-%d", eventType, len(d.handlers[eventType]))
	d.mu.RUnlock()
	d.SubscribeNamed(eventType, name, handler)
}

func (d *eventDispatcher) SubscribeNamed(eventType event.Type, name string, handler Handler) {
	d.register(eventType, name, handler)
}

func (d *eventDispatcher) SubscribeAll(name string, handler Handler) {
	d.register(anyType, name, handler)
}

func (d *eventDispatcher) register(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], HandlerInfo{
		Name:      name,
		EventType: eventType,
		Handler:   handler,
	})
	d.mu.Unlock()

	if d.logger != nil {
		d.logger.Info("Handler registered",
			"event_type", eventType,
			"handler_name", name,
		)
	}
}

func (d *eventDispatcher) Dispatch(ctx context.Context, events ...*event.Event) error {
	if d.closed.Load() {
		return ErrClosed
	}

	var errs []error
	for _, evt := range events {
		if evt == nil {
			continue
		}
		for _, info := range d.subscribers(evt.Type) {
			if err := d.safeExecute(ctx, evt, info); err != nil {
				if d.logger != nil {
					d.logger.Error("Handler error",
						"event_type", evt.Type,
						"event_id", evt.ID,
						"report_id", evt.ReportID,
						"handler_name", info.Name,
						"error", err,
					)
				}
				errs = append(errs, fmt.Errorf("handler %s failed: %w", info.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// subscribers returns type-specific handlers followed by wildcard handlers
func (d *eventDispatcher) subscribers(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	specific := d.handlers[eventType]
	wildcard := d.handlers[anyType]
	out := make([]HandlerInfo, 0, len(specific)+len(wildcard))
	out = append(out, specific...)
	return append(out, wildcard...)
}

func (d *eventDispatcher) ListHandlers(eventType event.Type) []HandlerInfo {
	subs := d.subscribers(eventType)
	result := make([]HandlerInfo, len(subs))
	for i, h := range subs {
		result[i] = HandlerInfo{Name: h.Name, EventType: h.EventType}
	}
	return result
}

func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already closed")
	}
	if d.logger != nil {
		d.logger.Info("Dispatcher closed")
	}
	return nil
}

// safeExecute runs a handler with panic recovery
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
			if d.logger != nil {
				d.logger.Error("Handler panic recovered",
					"event_type", evt.Type,
					"event_id", evt.ID,
					"handler_name", info.Name,
					"panic", r,
				)
			}
		}
	}()

	return info.Handler(ctx, evt)
}
