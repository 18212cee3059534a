// Package app wires the demo together: it loads the catalog snapshot,
// constructs the single shopping session, and runs the interactive shell.
package app

import (
	"context"
	"os"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.uber.org/zap"

	"github.com/feastkart/kiosk/db"
	"github.com/feastkart/kiosk/internal/domain/catalog"
	"github.com/feastkart/kiosk/internal/domain/checkout"
	"github.com/feastkart/kiosk/internal/localstore"
	"github.com/feastkart/kiosk/internal/memstore"
	"github.com/feastkart/kiosk/internal/session"
	"github.com/feastkart/kiosk/pkg/clock"
)

// Run creates all dependencies and drives the interactive shell until the
// context is cancelled or the shopper quits. It is the single wiring
// point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("store", cfg.StorePath))

	items, err := loadCatalog(ctx, lg, cfg.StorePath)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	lg.Info("Catalog loaded", zap.Int("items", len(items)))

	catalogRepo := memstore.NewCatalogRepository(items)
	orderRepo := memstore.NewOrderRepository()

	clk := clock.System{}
	sess, err := session.New(session.Config{
		Logger:  lg.Named("session"),
		Catalog: catalogRepo,
		Orders:  orderRepo,
		Workflow: checkout.Config{
			Settler:        checkout.NewDelaySettler(clk, cfg.Checkout.SettleDelay),
			Clock:          clk,
			SuccessDisplay: cfg.Checkout.SuccessDisplay,
		},
		TracerProvider: m.TracerProvider(),
		MeterProvider:  m.MeterProvider(),
	})
	if err != nil {
		return errors.Wrap(err, "create session")
	}

	sh := newShell(sess, catalogRepo, cfg.Currency, os.Stdin, os.Stdout)
	return sh.run(ctx)
}

// loadCatalog prefers the seeded local store when it exists and contains
// items, falling back to the embedded defaults. The store is only read at
// startup; the session works off the in-memory snapshot.
func loadCatalog(ctx context.Context, lg *zap.Logger, storePath string) ([]catalog.Item, error) {
	if _, err := os.Stat(storePath); err == nil {
		store, err := localstore.Open(storePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		loadCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		items, err := store.LoadCatalog(loadCtx)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			return items, nil
		}
		lg.Warn("Local store is empty, using embedded catalog", zap.String("store", storePath))
	}
	return db.DefaultCatalog()
}
