package ports

import (
	"context"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// Service defines the breeds use cases exposed to adapters (inbound/driving port).
type Service interface {
	ListBreeds(ctx context.Context, input types.ListBreedsInput) ([]domain.Breed, error)
	GetBreed(ctx context.Context, input types.BreedIdentifier) (*domain.Breed, error)
	MatchBreed(ctx context.Context, input types.MatchBreedInput) (*types.BreedMatch, error)
	RankBreeds(ctx context.Context, input types.RankBreedsInput) ([]types.BreedMatch, error)
	Search(ctx context.Context, input types.SearchInput) (*types.SearchResult, error)

	OpenSession(ctx context.Context, input types.OpenSessionInput) (*types.SessionView, error)
	UpdateSession(ctx context.Context, input types.UpdateSessionInput) (*types.SessionView, error)
	LoadMore(ctx context.Context, input types.SessionIdentifier) (*types.SessionView, error)
	GetSession(ctx context.Context, input types.SessionIdentifier) (*types.SessionView, error)
	CloseSession(ctx context.Context, input types.SessionIdentifier) error
	SweepSessions(ctx context.Context) (int, error)

	ImportCatalog(ctx context.Context, input types.CatalogImportInput) (*types.CatalogImportResult, error)
	ReloadCatalog(ctx context.Context) (*types.CatalogImportResult, error)
}
