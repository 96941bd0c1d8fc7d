package ports

import (
	"context"
	"errors"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// ErrNotFound signals a breed lookup missed.
var ErrNotFound = errors.New("breed not found")

// CatalogRepository stores the breed catalog. Records are returned in catalog order.
type CatalogRepository interface {
	LoadAll(ctx context.Context) ([]domain.Breed, error)
	// ReplaceAll swaps the whole catalog atomically.
	ReplaceAll(ctx context.Context, breeds []domain.Breed) error
}
