// Package localstore implements the demo's local key-value store: a
// single-file SQLite database seeded once at bootstrap with catalog and
// session defaults. The core never reads or writes it directly; the app
// shell loads the catalog snapshot from it at startup when present.
package localstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/feastkart/kiosk/db"
	"github.com/feastkart/kiosk/internal/domain/catalog"
	"github.com/feastkart/kiosk/internal/domain/payment"
)

const seededKey = "seeded_at"

// Store wraps the SQLite-backed local store.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the store at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open local store")
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "ping local store")
	}
	if _, err := conn.Exec(db.Schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "ensure schema")
	}
	return &Store{db: conn}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Seeded reports whether the one-time seed step has already run.
func (s *Store) Seeded(ctx context.Context) (bool, error) {
	var v string
	err := s.db.GetContext(ctx, &v, `SELECT value FROM meta WHERE key = ?`, seededKey)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "read seed marker")
	}
	return true, nil
}

// MarkSeeded records the seed timestamp so later runs become no-ops.
func (s *Store) MarkSeeded(ctx context.Context, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		seededKey, at.UTC().Format(time.RFC3339),
	)
	return errors.Wrap(err, "write seed marker")
}

type itemRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Price       string `db:"price"`
	ImageURI    string `db:"image_uri"`
	Description string `db:"description"`
	Category    string `db:"category"`
	Brand       string `db:"brand"`
	Stock       int    `db:"stock"`
	IsAvailable bool   `db:"is_available"`
	IsFeatured  bool   `db:"is_featured"`
	IsNew       bool   `db:"is_new"`
	Diet        string `db:"diet"`
}

// UpsertItems writes catalog items, replacing existing rows by ID.
// Prices are stored as decimal strings to keep them exact.
func (s *Store) UpsertItems(ctx context.Context, items []catalog.Item) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	for _, item := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO catalog_items
				(id, name, price, image_uri, description, category, brand,
				 stock, is_available, is_featured, is_new, diet)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name, price = excluded.price,
				image_uri = excluded.image_uri, description = excluded.description,
				category = excluded.category, brand = excluded.brand,
				stock = excluded.stock, is_available = excluded.is_available,
				is_featured = excluded.is_featured, is_new = excluded.is_new,
				diet = excluded.diet`,
			item.ID, item.Name, item.Price.String(), item.ImageURI,
			item.Description, item.Category, item.Brand, item.Stock,
			item.Available, item.Featured, item.New, string(item.Diet),
		)
		if err != nil {
			return errors.Wrapf(err, "upsert item %s", item.ID)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// LoadCatalog returns all stored catalog items in insertion order.
func (s *Store) LoadCatalog(ctx context.Context) ([]catalog.Item, error) {
	var rows []itemRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, price, image_uri, description, category, brand,
		       stock, is_available, is_featured, is_new, diet
		FROM catalog_items ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "load catalog")
	}

	items := make([]catalog.Item, len(rows))
	for i, r := range rows {
		item, err := r.toItem()
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func (r itemRow) toItem() (catalog.Item, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return catalog.Item{}, errors.Wrapf(err, "item %s price", r.ID)
	}
	return catalog.Item{
		ID:          r.ID,
		Name:        r.Name,
		Price:       price,
		ImageURI:    r.ImageURI,
		Description: r.Description,
		Category:    r.Category,
		Brand:       r.Brand,
		Stock:       r.Stock,
		Available:   r.IsAvailable,
		Featured:    r.IsFeatured,
		New:         r.IsNew,
		Diet:        catalog.Diet(r.Diet),
	}, nil
}

// SeedPayments writes the payment-method reference data in display order.
func (s *Store) SeedPayments(ctx context.Context, methods []payment.Method) error {
	for i, m := range methods {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO payment_methods(type, display_name, position)
			VALUES (?, ?, ?)
			ON CONFLICT(type) DO UPDATE SET
				display_name = excluded.display_name, position = excluded.position`,
			m.Type, m.DisplayName, i,
		)
		if err != nil {
			return errors.Wrapf(err, "seed payment method %s", m.Type)
		}
	}
	return nil
}

// SetDefault stores a session default.
func (s *Store) SetDefault(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_defaults(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return errors.Wrapf(err, "set default %s", key)
}

// Default returns a session default, or "" when unset.
func (s *Store) Default(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.GetContext(ctx, &v, `SELECT value FROM session_defaults WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "get default %s", key)
	}
	return v, nil
}
