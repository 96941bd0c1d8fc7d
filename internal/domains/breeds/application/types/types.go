// Package types holds the inputs and views exchanged with the breeds service.
package types

import (
	"time"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// ListBreedsInput filters the catalog listing by breed group. An empty group lists
// every breed.
type ListBreedsInput struct {
	Group string
}

// BreedIdentifier names one breed.
type BreedIdentifier struct {
	Name string
}

// MatchBreedInput scores one breed.
type MatchBreedInput struct {
	Name        string
	Preferences domain.Preferences
}

// RankBreedsInput scores every breed. Limit <= 0 returns the whole ranking.
type RankBreedsInput struct {
	Preferences domain.Preferences
	Limit       int
}

// BreedMatch pairs a breed with its 0–100 match percentage.
type BreedMatch struct {
	Breed      domain.Breed
	Percentage float64
}

// RankedBreed is the cacheable form of one ranking entry.
type RankedBreed struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// SearchInput is a stateless single-shot filter request.
type SearchInput struct {
	SearchText  string
	Preferences domain.Preferences
	Page        int
	PageSize    int
}

// SearchResult is a cumulative result page.
type SearchResult struct {
	Breeds         []domain.Breed
	TotalMatches   int
	Page           int
	PageSize       int
	HasMore        bool
	CatalogVersion string
}

// OpenSessionInput seeds a new search session.
type OpenSessionInput struct {
	SearchText  string
	Preferences domain.Preferences
}

// UpdateSessionInput changes the filter of a session. A nil SearchText leaves the
// text untouched; Preferences are merged after an optional reset. Flush skips the
// debounce window and recomputes before returning.
type UpdateSessionInput struct {
	ID               string
	SearchText       *string
	Preferences      domain.Preferences
	ResetPreferences bool
	Flush            bool
}

// SessionIdentifier names one search session.
type SessionIdentifier struct {
	ID string
}

// SessionView is a snapshot of a search session.
type SessionView struct {
	ID             string
	SearchText     string
	Preferences    domain.Preferences
	Breeds         []domain.Breed
	Page           int
	PageSize       int
	TotalMatches   int
	HasMore        bool
	Loading        bool
	CatalogVersion string
	OpenedAt       time.Time
	LastActiveAt   time.Time
}

// CatalogImportInput replaces the persisted catalog.
type CatalogImportInput struct {
	Breeds []domain.Breed
	Source string
}

// CatalogImportResult describes the catalog after an import or reload.
type CatalogImportResult struct {
	Version         string
	Breeds          int
	ExcludedHybrids int
	Groups          []string
}
