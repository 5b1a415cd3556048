package dispatcher

import (
	"context"

	"github.com/garyjia/expense-approvals/internal/domain/event"
)

// Handler processes a committed workflow event
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo describes a registered subscriber
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}

// anyType is the registration key for subscribers of every event type
const anyType event.Type = "*"
