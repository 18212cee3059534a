package checkout

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feastkart/kiosk/internal/domain/cart"
	"github.com/feastkart/kiosk/pkg/clock"
)

var orderIDPattern = regexp.MustCompile(`^ORD-\d+-\d{3}$`)

func TestNewOrderID_Format(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	id := NewOrderID(now)

	assert.Regexp(t, orderIDPattern, id)
	assert.Contains(t, id, "ORD-1788177600000-")
}

func TestNewOrderID_UniqueInSuccession(t *testing.T) {
	now := time.Now()

	seen := make(map[string]struct{})
	for range 100 {
		id := NewOrderID(now)
		_, dup := seen[id]
		require.False(t, dup, "duplicate order id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewOrderID_SortableByTime(t *testing.T) {
	earlier := NewOrderID(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	later := NewOrderID(time.Date(2026, 8, 31, 12, 0, 1, 0, time.UTC))

	assert.Less(t, earlier, later)
}

func TestReceiptsFromSuccessiveConfirms_AreDistinct(t *testing.T) {
	mint := func() *Receipt {
		w, _ := testWorkflow(t, Config{})
		require.NoError(t, w.Begin(testCart(t)))
		require.NoError(t, w.SelectPayment("upi"))
		r, err := w.Confirm(context.Background())
		require.NoError(t, err)
		return r
	}

	first := mint()
	second := mint()

	assert.NotEmpty(t, first.OrderID)
	assert.NotEqual(t, first.OrderID, second.OrderID)
}

func TestDelaySettler(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC))
	s := NewDelaySettler(clk, 2*time.Second)

	settlement, err := s.Settle(context.Background(), "upi", nil, cart.Totals{})

	require.NoError(t, err)
	assert.NotEmpty(t, settlement.Ref)
	assert.Equal(t, []time.Duration{2 * time.Second}, clk.Slept())
}

func TestDelaySettler_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewDelaySettler(clock.NewFake(time.Now()), 2*time.Second)
	_, err := s.Settle(ctx, "upi", nil, cart.Totals{})

	require.ErrorIs(t, err, context.Canceled)
}
