package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested catalog item does not exist.
var ErrNotFound = errors.New("catalog item not found")

// Diet tags an item as vegetarian or not.
type Diet string

const (
	DietVeg    Diet = "veg"
	DietNonVeg Diet = "non-veg"
)

// Item represents a catalog entry available for purchase. Items are
// reference data: created once at catalog load and never mutated by the
// cart subsystem.
type Item struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	ImageURI    string
	Description string
	Category    string
	Brand       string
	Stock       int
	Available   bool
	Featured    bool
	New         bool
	Diet        Diet
}

// Repository defines read operations over the catalog snapshot.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
	GetByIDs(ctx context.Context, ids []string) ([]Item, error)
	Search(ctx context.Context, query string) ([]Item, error)
}
