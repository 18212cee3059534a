package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feastkart/kiosk/internal/domain/cart"
	"github.com/feastkart/kiosk/internal/domain/catalog"
	"github.com/feastkart/kiosk/pkg/clock"
)

// --- Mock implementations ---

type recordingSink struct {
	mu        sync.Mutex
	confirmed []*Receipt
	cancelled int
}

func (s *recordingSink) OrderConfirmed(r *Receipt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = append(s.confirmed, r)
}

func (s *recordingSink) OrderCancelled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled++
}

type stubSettler struct {
	settlement Settlement
	err        error
	started    chan struct{}
	release    chan struct{}
	calls      int
}

func (s *stubSettler) Settle(_ context.Context, _ string, _ []cart.Line, _ cart.Totals) (Settlement, error) {
	s.calls++
	if s.started != nil {
		close(s.started)
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return Settlement{}, s.err
	}
	return s.settlement, nil
}

// --- Helpers ---

func testCart(t *testing.T) cart.Cart {
	t.Helper()
	c := cart.New().
		Add(catalog.Item{ID: "p1", Name: "Widget", Price: decimal.RequireFromString("10.00"), Available: true}).
		Add(catalog.Item{ID: "p2", Name: "Gadget", Price: decimal.RequireFromString("5.00"), Available: true})
	return c.UpdateQuantity("p2", 2)
}

func testWorkflow(t *testing.T, cfg Config) (*Workflow, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	cfg.Sink = sink
	if cfg.Clock == nil {
		cfg.Clock = clock.NewFake(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	}
	if cfg.Settler == nil {
		cfg.Settler = &stubSettler{settlement: Settlement{Ref: "ref-1"}}
	}
	return NewWorkflow(cfg), sink
}

// --- Tests ---

func TestCanConfirm(t *testing.T) {
	line := cart.Line{Item: catalog.Item{ID: "p1", Name: "Widget"}, Quantity: 1}

	tests := []struct {
		name     string
		lines    []cart.Line
		selected string
		want     bool
	}{
		{name: "no items", lines: nil, selected: "upi", want: false},
		{name: "no payment", lines: []cart.Line{line}, selected: "", want: false},
		{name: "ready", lines: []cart.Line{line}, selected: "upi", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanConfirm(tt.lines, tt.selected))
		})
	}
}

func TestBegin_EmptyCart(t *testing.T) {
	w, _ := testWorkflow(t, Config{})

	err := w.Begin(cart.New())

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, StateIdle, w.State())
}

func TestBegin(t *testing.T) {
	w, _ := testWorkflow(t, Config{})

	require.NoError(t, w.Begin(testCart(t)))
	assert.Equal(t, StatePaymentSelection, w.State())
}

func TestBegin_OnlyFromIdle(t *testing.T) {
	w, _ := testWorkflow(t, Config{})
	require.NoError(t, w.Begin(testCart(t)))

	err := w.Begin(testCart(t))

	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSelectPayment(t *testing.T) {
	w, _ := testWorkflow(t, Config{})
	require.NoError(t, w.Begin(testCart(t)))

	require.NoError(t, w.SelectPayment("upi"))
	assert.Equal(t, "UPI", w.Selected().DisplayName)
}

func TestSelectPayment_UnknownType(t *testing.T) {
	w, _ := testWorkflow(t, Config{})
	require.NoError(t, w.Begin(testCart(t)))

	err := w.SelectPayment("barter")

	require.ErrorIs(t, err, ErrUnknownPayment)
	assert.Empty(t, w.Selected().Type)
}

func TestSelectPayment_RejectedWhenIdle(t *testing.T) {
	w, _ := testWorkflow(t, Config{})

	require.ErrorIs(t, w.SelectPayment("upi"), ErrInvalidState)
}

func TestConfirm_WithoutPaymentSelection(t *testing.T) {
	w, _ := testWorkflow(t, Config{})
	require.NoError(t, w.Begin(testCart(t)))

	_, err := w.Confirm(context.Background())

	require.ErrorIs(t, err, ErrNoPayment)
	assert.Equal(t, StatePaymentSelection, w.State())
}

func TestConfirm_ClearsCartAndEmitsReceipt(t *testing.T) {
	cleared := false
	w, sink := testWorkflow(t, Config{
		ClearCart: func() { cleared = true },
	})
	require.NoError(t, w.Begin(testCart(t)))
	require.NoError(t, w.SelectPayment("upi"))

	receipt, err := w.Confirm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, w.State())
	assert.True(t, cleared)

	require.NotNil(t, receipt)
	assert.NotEmpty(t, receipt.OrderID)
	assert.Equal(t, "UPI", receipt.PaymentMethod)
	require.Len(t, receipt.Items, 2)
	assert.Equal(t, "Widget", receipt.Items[0].Name)
	assert.Equal(t, 1, receipt.Items[0].Quantity)
	assert.Equal(t, "Gadget", receipt.Items[1].Name)
	assert.Equal(t, 3, receipt.Items[1].Quantity)

	// subtotal 10 + 3*5 = 25, tax 2.5, total 27.5
	assert.True(t, decimal.RequireFromString("25").Equal(receipt.Subtotal))
	assert.True(t, decimal.RequireFromString("2.5").Equal(receipt.Tax))
	assert.True(t, decimal.RequireFromString("27.5").Equal(receipt.Total))

	require.Len(t, sink.confirmed, 1)
	assert.Same(t, receipt, sink.confirmed[0])
}

func TestConfirm_ReentrantCallRejected(t *testing.T) {
	settler := &stubSettler{
		settlement: Settlement{Ref: "ref-1"},
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	w, _ := testWorkflow(t, Config{Settler: settler})
	require.NoError(t, w.Begin(testCart(t)))
	require.NoError(t, w.SelectPayment("cod"))

	done := make(chan error, 1)
	go func() {
		_, err := w.Confirm(context.Background())
		done <- err
	}()

	<-settler.started
	assert.Equal(t, StateProcessing, w.State())

	// While settlement is in flight, confirm and payment changes are rejected.
	_, err := w.Confirm(context.Background())
	require.ErrorIs(t, err, ErrAlreadyProcessing)
	require.ErrorIs(t, w.SelectPayment("upi"), ErrAlreadyProcessing)
	require.ErrorIs(t, w.Cancel(), ErrAlreadyProcessing)

	close(settler.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, settler.calls)
	assert.Equal(t, StateSuccess, w.State())
}

func TestConfirm_SettlementFailureReturnsToPaymentSelection(t *testing.T) {
	cleared := false
	w, sink := testWorkflow(t, Config{
		Settler:   &stubSettler{err: errors.New("card declined")},
		ClearCart: func() { cleared = true },
	})
	require.NoError(t, w.Begin(testCart(t)))
	require.NoError(t, w.SelectPayment("credit_card"))

	_, err := w.Confirm(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settle")
	assert.Equal(t, StatePaymentSelection, w.State())
	assert.False(t, cleared, "cart must not be cleared on settlement failure")
	assert.Empty(t, sink.confirmed)

	// The selection survives, so the shopper can retry.
	assert.Equal(t, "credit_card", w.Selected().Type)
}

func TestComplete_ReturnsToIdle(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	w, _ := testWorkflow(t, Config{Clock: clk, SuccessDisplay: 4 * time.Second})
	require.NoError(t, w.Begin(testCart(t)))
	require.NoError(t, w.SelectPayment("upi"))
	_, err := w.Confirm(context.Background())
	require.NoError(t, err)

	require.NoError(t, w.Complete(context.Background()))

	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, []time.Duration{4 * time.Second}, clk.Slept())

	// A fresh checkout can start immediately.
	require.NoError(t, w.Begin(testCart(t)))
}

func TestComplete_OnlyFromSuccess(t *testing.T) {
	w, _ := testWorkflow(t, Config{})

	require.ErrorIs(t, w.Complete(context.Background()), ErrInvalidState)
}

func TestCancel(t *testing.T) {
	w, sink := testWorkflow(t, Config{})
	require.NoError(t, w.Begin(testCart(t)))
	require.NoError(t, w.SelectPayment("upi"))

	require.NoError(t, w.Cancel())

	assert.Equal(t, StateIdle, w.State())
	assert.Equal(t, 1, sink.cancelled)
	assert.Empty(t, w.Selected().Type)
}

func TestCancel_OnlyFromPaymentSelection(t *testing.T) {
	w, _ := testWorkflow(t, Config{})

	require.ErrorIs(t, w.Cancel(), ErrInvalidState)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "payment_selection", StatePaymentSelection.String())
	assert.Equal(t, "processing", StateProcessing.String())
	assert.Equal(t, "success", StateSuccess.String())
}
