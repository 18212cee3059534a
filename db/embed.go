// Package db provides the embedded local-store schema and the default
// catalog seed data.
package db

import (
	_ "embed"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/feastkart/kiosk/internal/domain/catalog"
)

// Schema contains the DDL statements for the local store tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedCatalogJSON is the default catalog shipped with the demo.
//
//go:embed seed/catalog.json
var SeedCatalogJSON []byte

type itemJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURI    string          `json:"imageURI"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Stock       int             `json:"stock"`
	IsAvailable bool            `json:"isAvailable"`
	IsFeatured  bool            `json:"isFeatured"`
	IsNew       bool            `json:"isNew"`
	ItemType    string          `json:"itemType"`
}

// DefaultCatalog parses the embedded seed data into catalog items,
// preserving file order.
func DefaultCatalog() ([]catalog.Item, error) {
	var raw []itemJSON
	if err := json.Unmarshal(SeedCatalogJSON, &raw); err != nil {
		return nil, errors.Wrap(err, "parse embedded catalog")
	}

	items := make([]catalog.Item, len(raw))
	for i, r := range raw {
		items[i] = catalog.Item{
			ID:          r.ID,
			Name:        r.Name,
			Price:       r.Price,
			ImageURI:    r.ImageURI,
			Description: r.Description,
			Category:    r.Category,
			Brand:       r.Brand,
			Stock:       r.Stock,
			Available:   r.IsAvailable,
			Featured:    r.IsFeatured,
			New:         r.IsNew,
			Diet:        catalog.Diet(r.ItemType),
		}
	}
	return items, nil
}
