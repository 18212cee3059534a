// Package checkout implements the order workflow: the state machine
// carrying a ready cart through payment selection and simulated
// settlement to a confirmed order, independent of any rendering layer.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/feastkart/kiosk/internal/domain/cart"
	"github.com/feastkart/kiosk/internal/domain/payment"
	"github.com/feastkart/kiosk/pkg/clock"
)

// State enumerates the workflow states.
type State int

const (
	StateIdle State = iota
	StatePaymentSelection
	StateProcessing
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePaymentSelection:
		return "payment_selection"
	case StateProcessing:
		return "processing"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Sentinel errors for rejected transitions. State never advances when one
// of these is returned; callers treat them as disabled actions rather
// than failures.
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoPayment         = errors.New("no payment method selected")
	ErrUnknownPayment    = errors.New("unknown payment method")
	ErrAlreadyProcessing = errors.New("order is already processing")
	ErrInvalidState      = errors.New("operation not allowed in current state")
)

// Sink receives the workflow's observable events.
type Sink interface {
	OrderConfirmed(receipt *Receipt)
	OrderCancelled()
}

// NopSink is a Sink that ignores all events.
type NopSink struct{}

func (NopSink) OrderConfirmed(*Receipt) {}
func (NopSink) OrderCancelled()         {}

// CanConfirm reports whether an order is ready to confirm: at least one
// line and a non-empty payment selection.
func CanConfirm(lines []cart.Line, selectedPayment string) bool {
	return len(lines) > 0 && selectedPayment != ""
}

// DefaultSuccessDisplay matches the reference success-animation duration.
const DefaultSuccessDisplay = 4 * time.Second

// Config holds the workflow's injected collaborators.
type Config struct {
	Settler Settler
	Clock   clock.Clock
	Sink    Sink
	// ClearCart is the cart-clear contract invoked on successful
	// confirmation, before the OrderConfirmed event fires.
	ClearCart func()
	// SuccessDisplay is how long Complete holds the Success state before
	// returning to Idle. Defaults to DefaultSuccessDisplay.
	SuccessDisplay time.Duration
}

// Workflow is the order state machine. All methods are safe for
// concurrent use, though the intended owner is a single session.
type Workflow struct {
	settler        Settler
	clk            clock.Clock
	sink           Sink
	clearCart      func()
	successDisplay time.Duration

	mu         sync.Mutex
	state      State
	lines      []cart.Line
	totals     cart.Totals
	selected   payment.Method
	processing bool
}

// NewWorkflow creates a Workflow in the Idle state. Nil collaborators get
// no-op defaults; a nil Clock gets the system clock.
func NewWorkflow(cfg Config) *Workflow {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}
	if cfg.ClearCart == nil {
		cfg.ClearCart = func() {}
	}
	if cfg.SuccessDisplay <= 0 {
		cfg.SuccessDisplay = DefaultSuccessDisplay
	}
	if cfg.Settler == nil {
		cfg.Settler = NewDelaySettler(cfg.Clock, 2*time.Second)
	}

	return &Workflow{
		settler:        cfg.Settler,
		clk:            cfg.Clock,
		sink:           cfg.Sink,
		clearCart:      cfg.ClearCart,
		successDisplay: cfg.SuccessDisplay,
	}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Selected returns the currently selected payment method, zero when none.
func (w *Workflow) Selected() payment.Method {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.selected
}

// Begin moves Idle to PaymentSelection with a snapshot of the given cart.
// The cart must be non-empty.
func (w *Workflow) Begin(c cart.Cart) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle {
		return ErrInvalidState
	}
	if c.IsEmpty() {
		return ErrEmptyCart
	}

	w.lines = c.Lines()
	w.totals = c.Totals()
	w.selected = payment.Method{}
	w.state = StatePaymentSelection
	return nil
}

// SelectPayment records the payment choice. Only allowed during
// PaymentSelection; changes while settlement runs are rejected.
func (w *Workflow) SelectPayment(paymentType string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.processing {
		return ErrAlreadyProcessing
	}
	if w.state != StatePaymentSelection {
		return ErrInvalidState
	}

	m, ok := payment.ByType(paymentType)
	if !ok {
		return ErrUnknownPayment
	}
	w.selected = m
	return nil
}

// Confirm runs the Processing state: it guards readiness, performs
// settlement, and on success mints a receipt, clears the cart through the
// configured contract, emits OrderConfirmed, and enters Success. A failed
// settlement returns the workflow to PaymentSelection with the cart
// untouched. Re-entrant calls while settlement is in flight are rejected
// with ErrAlreadyProcessing.
func (w *Workflow) Confirm(ctx context.Context) (*Receipt, error) {
	w.mu.Lock()
	if w.processing {
		w.mu.Unlock()
		return nil, ErrAlreadyProcessing
	}
	if w.state != StatePaymentSelection {
		w.mu.Unlock()
		return nil, ErrInvalidState
	}
	if len(w.lines) == 0 {
		w.mu.Unlock()
		return nil, ErrEmptyCart
	}
	if !CanConfirm(w.lines, w.selected.Type) {
		w.mu.Unlock()
		return nil, ErrNoPayment
	}

	w.processing = true
	w.state = StateProcessing
	lines, totals, selected := w.lines, w.totals, w.selected
	w.mu.Unlock()

	settlement, err := w.settler.Settle(ctx, selected.Type, lines, totals)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.processing = false

	if err != nil {
		w.state = StatePaymentSelection
		return nil, errors.Wrap(err, "settle")
	}

	receipt := newReceipt(w.clk.Now(), selected.DisplayName, lines, totals, settlement.Ref)
	w.state = StateSuccess

	w.clearCart()
	w.sink.OrderConfirmed(receipt)
	return receipt, nil
}

// Complete holds the Success state for the configured display duration,
// then returns the workflow to Idle, ready for a new cart.
func (w *Workflow) Complete(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateSuccess {
		w.mu.Unlock()
		return ErrInvalidState
	}
	w.mu.Unlock()

	if err := w.clk.Sleep(ctx, w.successDisplay); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
	return nil
}

// Cancel abandons payment selection and returns to Idle, emitting
// OrderCancelled. Not allowed while settlement is in flight.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	if w.processing {
		w.mu.Unlock()
		return ErrAlreadyProcessing
	}
	if w.state != StatePaymentSelection {
		w.mu.Unlock()
		return ErrInvalidState
	}
	w.reset()
	w.mu.Unlock()

	w.sink.OrderCancelled()
	return nil
}

// reset clears transient order state. Callers hold w.mu.
func (w *Workflow) reset() {
	w.state = StateIdle
	w.lines = nil
	w.totals = cart.Totals{}
	w.selected = payment.Method{}
}
