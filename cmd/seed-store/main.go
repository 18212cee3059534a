// Command seed-store performs the one-time bootstrap of the local store:
// the embedded default catalog, the payment-method list, and session
// defaults. A marker in the store makes repeated runs a no-op unless
// -force is given.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"

	"github.com/feastkart/kiosk/db"
	"github.com/feastkart/kiosk/internal/domain/payment"
	"github.com/feastkart/kiosk/internal/localstore"
)

func main() {
	var (
		storePath string
		currency  string
		force     bool
	)

	flag.StringVar(&storePath, "store-path", "kiosk.db", "path to the local store file (or KIOSK_STORE_PATH env)")
	flag.StringVar(&currency, "currency", "₹", "currency symbol stored as a session default")
	flag.BoolVar(&force, "force", false, "reseed even if the store is already seeded")
	flag.Parse()

	if v := os.Getenv("KIOSK_STORE_PATH"); v != "" && storePath == "kiosk.db" {
		storePath = v
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, storePath, currency, force); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, storePath, currency string, force bool) error {
	store, err := localstore.Open(storePath)
	if err != nil {
		return errors.Wrap(err, "open store")
	}
	defer store.Close()

	seeded, err := store.Seeded(ctx)
	if err != nil {
		return errors.Wrap(err, "check seed marker")
	}
	if seeded && !force {
		slog.Info("store already seeded, nothing to do", slog.String("path", storePath))
		return nil
	}

	items, err := db.DefaultCatalog()
	if err != nil {
		return errors.Wrap(err, "parse embedded catalog")
	}

	slog.Info("seeding catalog", slog.Int("items", len(items)))
	if err := store.UpsertItems(ctx, items); err != nil {
		return errors.Wrap(err, "seed catalog")
	}

	methods := payment.Methods()
	slog.Info("seeding payment methods", slog.Int("methods", len(methods)))
	if err := store.SeedPayments(ctx, methods); err != nil {
		return errors.Wrap(err, "seed payment methods")
	}

	if err := store.SetDefault(ctx, "currency", currency); err != nil {
		return errors.Wrap(err, "seed session defaults")
	}

	if err := store.MarkSeeded(ctx, time.Now()); err != nil {
		return errors.Wrap(err, "mark seeded")
	}

	slog.Info("seed completed successfully", slog.String("path", storePath))
	return nil
}
