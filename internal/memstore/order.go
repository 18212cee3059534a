package memstore

import (
	"context"
	"sync"

	"github.com/feastkart/kiosk/internal/domain/checkout"
)

var _ checkout.Repository = (*OrderRepository)(nil)

// OrderRepository keeps the session's completed-order receipts in memory,
// in confirmation order.
type OrderRepository struct {
	mu       sync.Mutex
	receipts []*checkout.Receipt
}

// NewOrderRepository returns an empty OrderRepository.
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Record appends a receipt.
func (r *OrderRepository) Record(_ context.Context, receipt *checkout.Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = append(r.receipts, receipt)
	return nil
}

// List returns the recorded receipts in confirmation order.
func (r *OrderRepository) List(_ context.Context) ([]*checkout.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*checkout.Receipt, len(r.receipts))
	copy(out, r.receipts)
	return out, nil
}
