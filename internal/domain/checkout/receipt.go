package checkout

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/feastkart/kiosk/internal/domain/cart"
)

// ReceiptItem is the immutable per-line snapshot captured on a receipt.
type ReceiptItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// Receipt is the record produced on successful order confirmation. It is
// immutable once created and lives only for the success-notification
// flow; nothing persists it.
type Receipt struct {
	OrderID       string
	Date          string
	Time          string
	PaymentMethod string
	Items         []ReceiptItem
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	SettlementRef string
}

// seq separates order IDs minted within the same millisecond. Seeded
// randomly so IDs from different sessions don't line up.
var seq atomic.Uint64

func init() {
	seq.Store(rand.Uint64N(1000))
}

// NewOrderID mints a sortable order identifier: a millisecond timestamp
// component followed by a three-digit salt. The salt advances on every
// call, so IDs minted back to back are always distinct; across sessions
// uniqueness is only practical, not guaranteed.
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%d-%03d", now.UnixMilli(), seq.Add(1)%1000)
}

// newReceipt snapshots the order details into an immutable receipt.
func newReceipt(now time.Time, paymentName string, lines []cart.Line, totals cart.Totals, settlementRef string) *Receipt {
	items := make([]ReceiptItem, len(lines))
	for i, line := range lines {
		items[i] = ReceiptItem{
			Name:     line.Item.Name,
			Price:    line.Item.Price,
			Quantity: line.Quantity,
		}
	}

	return &Receipt{
		OrderID:       NewOrderID(now),
		Date:          now.Format("02/01/2006"),
		Time:          now.Format("15:04:05"),
		PaymentMethod: paymentName,
		Items:         items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		SettlementRef: settlementRef,
	}
}
