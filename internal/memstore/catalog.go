// Package memstore provides in-memory repository implementations backing
// the demo: the catalog snapshot and the session's completed orders.
// There is no database behind them; the catalog is loaded once at startup
// and never mutated afterwards.
package memstore

import (
	"context"

	"github.com/feastkart/kiosk/internal/domain/catalog"
)

var _ catalog.Repository = (*CatalogRepository)(nil)

// CatalogRepository implements catalog.Repository over an immutable
// insertion-ordered snapshot. Reads need no locking because the snapshot
// never changes after construction.
type CatalogRepository struct {
	items []catalog.Item
	byID  map[string]int
}

// NewCatalogRepository builds a repository from the given items,
// preserving their order. Later duplicates of an ID are ignored.
func NewCatalogRepository(items []catalog.Item) *CatalogRepository {
	r := &CatalogRepository{
		items: make([]catalog.Item, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for _, item := range items {
		if _, ok := r.byID[item.ID]; ok {
			continue
		}
		r.byID[item.ID] = len(r.items)
		r.items = append(r.items, item)
	}
	return r
}

// List returns all catalog items in load order.
func (r *CatalogRepository) List(_ context.Context) ([]catalog.Item, error) {
	out := make([]catalog.Item, len(r.items))
	copy(out, r.items)
	return out, nil
}

// GetByID returns a single item by its identifier.
func (r *CatalogRepository) GetByID(_ context.Context, id string) (*catalog.Item, error) {
	idx, ok := r.byID[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	item := r.items[idx]
	return &item, nil
}

// GetByIDs returns the items matching any of the given IDs, in catalog
// order. Unknown IDs are skipped; callers that need presence checks
// compare lengths.
func (r *CatalogRepository) GetByIDs(_ context.Context, ids []string) ([]catalog.Item, error) {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	out := make([]catalog.Item, 0, len(want))
	for _, item := range r.items {
		if _, ok := want[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// Search returns items matching the query, case-insensitively, over
// name, description, and category.
func (r *CatalogRepository) Search(_ context.Context, query string) ([]catalog.Item, error) {
	return catalog.FilterBySearch(r.items, query), nil
}
