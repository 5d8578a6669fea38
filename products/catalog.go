package products

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/virtualpet/storefront/api"
)

// API is the slice of the REST client the catalog needs.
type API interface {
	Products(ctx context.Context, category string) ([]api.Product, error)
}

// Catalog lists products for the browsing views.
type Catalog struct {
	api API
	log zerolog.Logger
}

// NewCatalog creates the catalog service.
func NewCatalog(productAPI API, log zerolog.Logger) *Catalog {
	return &Catalog{api: productAPI, log: log.With().Str("component", "catalog").Logger()}
}

// List fetches the catalog, optionally filtered by a category slug.
// Entries whose price cannot be parsed are skipped with a warning
// rather than failing the whole listing.
func (c *Catalog) List(ctx context.Context, category string) ([]Product, error) {
	raw, err := c.api.Products(ctx, category)
	if err != nil {
		return nil, errors.Wrap(err, "[Catalog.List]")
	}

	out := make([]Product, 0, len(raw))
	for _, p := range raw {
		product, err := FromAPI(p)
		if err != nil {
			c.log.Warn().Err(err).Int64("product_id", p.ID).Msg("skipping product with unparseable price")
			continue
		}
		out = append(out, product)
	}
	return out, nil
}
