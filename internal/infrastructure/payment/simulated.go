// Package payment holds PaymentGateway implementations
package payment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/expense-approvals/internal/application/port"
)

// OutcomeFunc decides whether a simulated payment is accepted. Returning an error declines it.
type OutcomeFunc func(req port.PaymentRequest) error

// SimulatedGateway accepts payments without moving money and issues TXN-prefixed transaction IDs
type SimulatedGateway struct {
	now     func() time.Time
	outcome OutcomeFunc
}

var _ port.PaymentGateway = (*SimulatedGateway)(nil)

// Option configures the simulated gateway
type Option func(*SimulatedGateway)

// WithClock overrides the time source used for transaction IDs
func WithClock(now func() time.Time) Option {
	return func(g *SimulatedGateway) {
		g.now = now
	}
}

// WithOutcome installs a predicate deciding each payment; the default accepts all
func WithOutcome(fn OutcomeFunc) Option {
	return func(g *SimulatedGateway) {
		g.outcome = fn
	}
}

// NewSimulatedGateway creates a gateway that accepts every valid payment
func NewSimulatedGateway(opts ...Option) *SimulatedGateway {
	g := &SimulatedGateway{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Pay validates the request and returns a receipt
func (g *SimulatedGateway) Pay(ctx context.Context, req port.PaymentRequest) (*port.PaymentReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invalid payment amount %.2f for report %s", req.Amount, req.ReportID)
	}
	if g.outcome != nil {
		if err := g.outcome(req); err != nil {
			return nil, fmt.Errorf("payment declined: %w", err)
		}
	}

	at := g.now()
	return &port.PaymentReceipt{
		TransactionID: TransactionID(at),
		ProcessedAt:   at,
	}, nil
}

// TransactionID formats "TXN" + unix milliseconds + 4 random hex digits
func TransactionID(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("TXN%d%s", at.UnixMilli(), suffix)
}
