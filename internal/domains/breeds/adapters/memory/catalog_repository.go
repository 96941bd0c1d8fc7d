package memory

import (
	"context"
	"sync"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

var _ ports.CatalogRepository = (*CatalogRepository)(nil)

// CatalogRepository provides an in-memory catalog for development and tests.
type CatalogRepository struct {
	mu     sync.RWMutex
	breeds []domain.Breed
}

// NewCatalogRepository constructs a repository holding a copy of seed.
func NewCatalogRepository(seed ...domain.Breed) *CatalogRepository {
	return &CatalogRepository{breeds: cloneBreeds(seed)}
}

// LoadAll returns a copy of the stored catalog.
func (r *CatalogRepository) LoadAll(_ context.Context) ([]domain.Breed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneBreeds(r.breeds), nil
}

// ReplaceAll swaps the stored catalog.
func (r *CatalogRepository) ReplaceAll(_ context.Context, breeds []domain.Breed) error {
	clone := cloneBreeds(breeds)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breeds = clone
	return nil
}

func cloneBreeds(breeds []domain.Breed) []domain.Breed {
	if len(breeds) == 0 {
		return nil
	}
	out := make([]domain.Breed, len(breeds))
	for i, b := range breeds {
		out[i] = b.Clone()
	}
	return out
}
