package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/feastkart/kiosk/internal/domain/cart"
	"github.com/feastkart/kiosk/pkg/clock"
)

// Settlement is the outcome of a successful settlement attempt.
type Settlement struct {
	// Ref is an opaque reference for the settled payment.
	Ref string
}

// Settler performs the payment-settlement step of the Processing state.
// The reference behaviour always succeeds after a fixed delay; a Settler
// returning an error sends the workflow back to payment selection without
// touching the cart.
type Settler interface {
	Settle(ctx context.Context, paymentType string, lines []cart.Line, totals cart.Totals) (Settlement, error)
}

// DelaySettler simulates settlement: it waits the configured delay on the
// given clock and succeeds with a fresh reference.
type DelaySettler struct {
	clk   clock.Clock
	delay time.Duration
}

// NewDelaySettler returns a DelaySettler waiting for delay on clk.
func NewDelaySettler(clk clock.Clock, delay time.Duration) *DelaySettler {
	return &DelaySettler{clk: clk, delay: delay}
}

// Settle waits out the delay, honouring ctx cancellation.
func (s *DelaySettler) Settle(ctx context.Context, _ string, _ []cart.Line, _ cart.Totals) (Settlement, error) {
	if err := s.clk.Sleep(ctx, s.delay); err != nil {
		return Settlement{}, err
	}
	return Settlement{Ref: uuid.New().String()}, nil
}
