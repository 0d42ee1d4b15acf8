package client

import (
	"context"

	"golang.org/x/exp/slog"

	"grampos/internal/domain/catalog"
)

// CatalogCache keeps a best-effort local mirror of the product catalog so
// browsing and sale entry keep working without a network.
type CatalogCache struct {
	api   *httpClient
	store *Store
	log   *slog.Logger
}

func NewCatalogCache(api *httpClient, store *Store, log *slog.Logger) *CatalogCache {
	return &CatalogCache{api: api, store: store, log: log}
}

// Load fetches the full catalog from the server and fully replaces the
// local mirror. On any network or parse failure it degrades to whatever is
// cached, possibly empty. It never fails: the server is the source of truth
// and staleness beats a partial merge.
func (c *CatalogCache) Load(ctx context.Context) []catalog.Product {
	products, err := c.api.FetchProducts(ctx)
	if err != nil {
		c.log.Info("catalog fetch failed, serving local cache", "error", err)
		return c.store.Products(ctx)
	}

	if err := c.store.ReplaceProducts(ctx, products); err != nil {
		// The fresh list is still good; only the mirror update failed.
		c.log.Warn("failed to refresh catalog cache", "error", err)
	}

	return products
}
