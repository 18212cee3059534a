// Package session implements the active shopping session: the single
// owner of one Cart and one checkout Workflow, and the only mutation
// entry point for either. All operations are synchronous; there is no
// multi-actor contention by construction.
package session

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/feastkart/kiosk/internal/domain/cart"
	"github.com/feastkart/kiosk/internal/domain/catalog"
	"github.com/feastkart/kiosk/internal/domain/checkout"
	"github.com/feastkart/kiosk/internal/domain/payment"
)

// ItemUnavailableError indicates an add was attempted for an item the
// catalog lists as not available.
type ItemUnavailableError struct {
	ItemID string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("item %s is not available", e.ItemID)
}

// Config holds the session's collaborators.
type Config struct {
	Logger  *zap.Logger
	Catalog catalog.Repository
	Orders  checkout.Repository
	// Workflow configures the checkout workflow. The ClearCart field is
	// overridden by the session, which owns the cart-clear contract.
	Workflow checkout.Config

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

// Session couples the cart engine and the order workflow for one shopper.
type Session struct {
	id       string
	lg       *zap.Logger
	catalog  catalog.Repository
	orders   checkout.Repository
	workflow *checkout.Workflow
	tracer   trace.Tracer
	orderCnt metric.Int64Counter

	cart cart.Cart
}

// New creates a Session with an empty cart and an Idle workflow.
func New(cfg Config) (*Session, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("catalog repository is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = noop.NewTracerProvider()
	}

	s := &Session{
		id:      uuid.New().String(),
		lg:      cfg.Logger,
		catalog: cfg.Catalog,
		orders:  cfg.Orders,
		tracer:  cfg.TracerProvider.Tracer("kiosk/session"),
	}

	if cfg.MeterProvider != nil {
		meter := cfg.MeterProvider.Meter("kiosk/session")
		cnt, err := meter.Int64Counter("kiosk.orders.confirmed",
			metric.WithDescription("Number of orders confirmed in this session"),
		)
		if err != nil {
			return nil, errors.Wrap(err, "create order counter")
		}
		s.orderCnt = cnt
	}

	cfg.Workflow.ClearCart = func() {
		s.cart = s.cart.Clear()
	}
	s.workflow = checkout.NewWorkflow(cfg.Workflow)

	s.lg = s.lg.With(zap.String("session_id", s.id))
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Cart returns the current cart snapshot.
func (s *Session) Cart() cart.Cart { return s.cart }

// Totals derives the totals for the current cart contents.
func (s *Session) Totals() cart.Totals { return s.cart.Totals() }

// State returns the workflow state.
func (s *Session) State() checkout.State { return s.workflow.State() }

// SelectedPayment returns the currently selected payment method, zero
// when none is selected.
func (s *Session) SelectedPayment() payment.Method { return s.workflow.Selected() }

// AddItem resolves itemID against the catalog and adds it to the cart.
// Adding an item already in the cart is silently ignored, matching the
// cart engine's add policy.
func (s *Session) AddItem(ctx context.Context, itemID string) error {
	item, err := s.catalog.GetByID(ctx, itemID)
	if err != nil {
		return errors.Wrapf(err, "resolve item %s", itemID)
	}
	if !item.Available {
		return &ItemUnavailableError{ItemID: itemID}
	}

	before := s.cart.Len()
	s.cart = s.cart.Add(*item)

	s.lg.Debug("add to cart",
		zap.String("item_id", itemID),
		zap.Bool("ignored", s.cart.Len() == before),
		zap.Int("cart_size", s.cart.Len()),
	)
	return nil
}

// RemoveItem drops the line for itemID; absent IDs are a no-op.
func (s *Session) RemoveItem(itemID string) {
	s.cart = s.cart.Remove(itemID)
	s.lg.Debug("remove from cart", zap.String("item_id", itemID), zap.Int("cart_size", s.cart.Len()))
}

// ChangeQuantity adjusts the quantity of the line for itemID by delta.
func (s *Session) ChangeQuantity(itemID string, delta int) {
	s.cart = s.cart.UpdateQuantity(itemID, delta)
	s.lg.Debug("update quantity",
		zap.String("item_id", itemID),
		zap.Int("delta", delta),
		zap.Int("cart_size", s.cart.Len()),
	)
}

// ClearCart empties the cart.
func (s *Session) ClearCart() {
	s.cart = s.cart.Clear()
	s.lg.Debug("cart cleared")
}

// BeginCheckout moves the workflow into payment selection for the
// current cart.
func (s *Session) BeginCheckout() error {
	if err := s.workflow.Begin(s.cart); err != nil {
		return err
	}
	s.lg.Info("checkout started", zap.Int("lines", s.cart.Len()))
	return nil
}

// SelectPayment records the payment choice on the workflow.
func (s *Session) SelectPayment(paymentType string) error {
	return s.workflow.SelectPayment(paymentType)
}

// CancelCheckout abandons payment selection.
func (s *Session) CancelCheckout() error {
	if err := s.workflow.Cancel(); err != nil {
		return err
	}
	s.lg.Info("checkout cancelled")
	return nil
}

// ConfirmOrder runs settlement and, on success, records the receipt.
// The cart is cleared by the workflow through the session's cart-clear
// contract before the receipt is returned.
func (s *Session) ConfirmOrder(ctx context.Context) (*checkout.Receipt, error) {
	ctx, span := s.tracer.Start(ctx, "session.ConfirmOrder")
	defer span.End()

	receipt, err := s.workflow.Confirm(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", receipt.OrderID))

	if s.orders != nil {
		if err := s.orders.Record(ctx, receipt); err != nil {
			return nil, errors.Wrap(err, "record order")
		}
	}
	if s.orderCnt != nil {
		s.orderCnt.Add(ctx, 1, metric.WithAttributes(
			attribute.String("payment.method", receipt.PaymentMethod),
		))
	}

	s.lg.Info("order confirmed",
		zap.String("order_id", receipt.OrderID),
		zap.String("payment_method", receipt.PaymentMethod),
		zap.String("total", receipt.Total.String()),
	)
	return receipt, nil
}

// CompleteOrder waits out the success display and returns the workflow
// to Idle.
func (s *Session) CompleteOrder(ctx context.Context) error {
	return s.workflow.Complete(ctx)
}

// Receipts lists the receipts recorded in this session.
func (s *Session) Receipts(ctx context.Context) ([]*checkout.Receipt, error) {
	if s.orders == nil {
		return nil, nil
	}
	return s.orders.List(ctx)
}
