package service

import (
	"context"
	"time"

	"github.com/ridloal/mushaf-storefront/internal/catalog/domain"
	"github.com/ridloal/mushaf-storefront/internal/catalog/repository"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
)

// Snapshot is one fetch of the storefront catalog. When the fetch failed,
// Products is empty and Err carries the backend message; stale data is never served.
type Snapshot struct {
	Products []domain.Product `json:"products"`
	Err      string           `json:"error,omitempty"`
	LoadedAt time.Time        `json:"loaded_at"`
}

func (s Snapshot) Failed() bool {
	return s.Err != ""
}

// Find returns the product with the given id from the snapshot.
func (s Snapshot) Find(productID string) (domain.Product, bool) {
	for _, p := range s.Products {
		if p.ID == productID {
			return p, true
		}
	}
	return domain.Product{}, false
}

type CatalogLoader interface {
	Load(ctx context.Context) Snapshot
}

type catalogLoader struct {
	repo repository.ProductRepository
	now  func() time.Time
}

func NewCatalogLoader(repo repository.ProductRepository) CatalogLoader {
	return &catalogLoader{repo: repo, now: time.Now}
}

// Load fetches active products ordered by category, then creation time.
func (l *catalogLoader) Load(ctx context.Context) Snapshot {
	products, err := l.repo.ListActiveProducts(ctx)
	if err != nil {
		logger.Error("CatalogLoader.Load: failed to list active products", err)
		return Snapshot{Products: []domain.Product{}, Err: err.Error(), LoadedAt: l.now()}
	}
	if products == nil {
		products = []domain.Product{}
	}
	return Snapshot{Products: products, LoadedAt: l.now()}
}
