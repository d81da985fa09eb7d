// Package shop holds the typed page-level data services: each
// operation issues one query against the hosted row store, pushes the
// result through the decode boundary, and reports failures to the
// notifier once. Callers pass a context and cancel it on teardown, so
// nothing is applied after the page is gone.
package shop

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/dammytech/dtxstore/internal/client/backend"
	"github.com/dammytech/dtxstore/internal/client/notify"
	"github.com/dammytech/dtxstore/internal/models"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("shop: not found")

// Catalog reads the products table.
type Catalog struct {
	tables   backend.TableAPI
	notifier notify.Notifier
	sfg      singleflight.Group
}

// NewCatalog builds a Catalog over the given row store.
func NewCatalog(tables backend.TableAPI, notifier notify.Notifier) *Catalog {
	return &Catalog{tables: tables, notifier: notifier}
}

// List returns the products of one category, newest first, or the
// whole catalog for "" / "all".
func (c *Catalog) List(ctx context.Context, category string) ([]models.Product, error) {
	opts := []backend.Option{backend.OrderBy("created_at", false)}
	if category != "" && category != "all" {
		opts = append(opts, backend.Eq("category", category))
	}
	raws, err := c.tables.Select(ctx, "products", opts...)
	if err != nil {
		c.notifier.Error("Failed to load products")
		return nil, err
	}
	products, err := models.DecodeRows[models.Product]("product", raws)
	if err != nil {
		c.notifier.Error("Failed to load products")
		return nil, err
	}
	return products, nil
}

// Latest returns the n newest products, for the home page strip.
func (c *Catalog) Latest(ctx context.Context, n int) ([]models.Product, error) {
	raws, err := c.tables.Select(ctx, "products",
		backend.OrderBy("created_at", false), backend.Limit(n))
	if err != nil {
		c.notifier.Error("Failed to load products")
		return nil, err
	}
	products, err := models.DecodeRows[models.Product]("product", raws)
	if err != nil {
		c.notifier.Error("Failed to load products")
		return nil, err
	}
	return products, nil
}

// Get fetches one product by id. Concurrent lookups for the same id
// are collapsed into a single remote call.
func (c *Catalog) Get(ctx context.Context, id string) (*models.Product, error) {
	v, err, _ := c.sfg.Do(id, func() (any, error) {
		raw, err := c.tables.SelectSingle(ctx, "products", backend.Eq("id", id))
		if err != nil {
			if errors.Is(err, backend.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		p, err := models.DecodeRow[models.Product]("product", raw)
		if err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.notifier.Error("Failed to load product")
		}
		return nil, err
	}
	return v.(*models.Product), nil
}
