package mapper

import (
	"time"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// Trait is the HTTP representation of one scored trait.
type Trait struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// TraitGroup is the HTTP representation of a trait group.
type TraitGroup struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score,omitempty"`
	Traits []Trait `json:"traits"`
}

// Breed is the HTTP representation of a catalog record.
type Breed struct {
	Name       string       `json:"name"`
	BreedGroup string       `json:"breedGroup"`
	Traits     []TraitGroup `json:"traits"`
}

// BreedMatch is a breed with its match percentage.
type BreedMatch struct {
	Breed      Breed   `json:"breed"`
	Percentage float64 `json:"percentage"`
}

// PreferencesRequest carries a preference map. Values are true|false|0|1|2|null.
type PreferencesRequest struct {
	Preferences domain.Preferences `json:"preferences"`
}

// RankRequest asks for the catalog ranked against preferences.
type RankRequest struct {
	Preferences domain.Preferences `json:"preferences"`
	Limit       int                `json:"limit,omitempty"`
}

// SearchRequest is a stateless filter request.
type SearchRequest struct {
	SearchText  string             `json:"searchText"`
	Preferences domain.Preferences `json:"preferences"`
	Page        int                `json:"page,omitempty"`
	PageSize    int                `json:"pageSize,omitempty"`
}

// SearchPage is a cumulative page of filtered breeds.
type SearchPage struct {
	Breeds         []Breed `json:"breeds"`
	TotalMatches   int     `json:"totalMatches"`
	Page           int     `json:"page"`
	PageSize       int     `json:"pageSize"`
	HasMore        bool    `json:"hasMore"`
	CatalogVersion string  `json:"catalogVersion"`
}

// OpenSessionRequest seeds a search session.
type OpenSessionRequest struct {
	SearchText  string             `json:"searchText"`
	Preferences domain.Preferences `json:"preferences"`
}

// UpdateSessionRequest patches a session filter. Absent fields are left alone.
type UpdateSessionRequest struct {
	SearchText       *string            `json:"searchText,omitempty"`
	Preferences      domain.Preferences `json:"preferences,omitempty"`
	ResetPreferences bool               `json:"resetPreferences,omitempty"`
	Flush            bool               `json:"flush,omitempty"`
}

// Session is the HTTP view of a search session.
type Session struct {
	ID             string             `json:"id"`
	SearchText     string             `json:"searchText"`
	Preferences    domain.Preferences `json:"preferences"`
	Breeds         []Breed            `json:"breeds"`
	Page           int                `json:"page"`
	PageSize       int                `json:"pageSize"`
	TotalMatches   int                `json:"totalMatches"`
	HasMore        bool               `json:"hasMore"`
	Loading        bool               `json:"loading"`
	CatalogVersion string             `json:"catalogVersion"`
	OpenedAt       time.Time          `json:"openedAt"`
	LastActiveAt   time.Time          `json:"lastActiveAt"`
}

// CatalogImportRequest replaces the catalog.
type CatalogImportRequest struct {
	Breeds []Breed `json:"breeds"`
	Source string  `json:"source,omitempty"`
}

// CatalogImport summarises an import or reload.
type CatalogImport struct {
	Version         string   `json:"version"`
	Breeds          int      `json:"breeds"`
	ExcludedHybrids int      `json:"excludedHybrids"`
	Groups          []string `json:"groups"`
}

// ToDomainBreed maps a transport breed into the domain record.
func ToDomainBreed(input Breed) domain.Breed {
	breed := domain.Breed{
		Name:       input.Name,
		BreedGroup: input.BreedGroup,
		Traits:     make([]domain.TraitGroup, 0, len(input.Traits)),
	}
	for _, g := range input.Traits {
		group := domain.TraitGroup{Name: g.Name, Score: g.Score, Traits: make([]domain.Trait, 0, len(g.Traits))}
		for _, t := range g.Traits {
			group.Traits = append(group.Traits, domain.Trait{Name: t.Name, Score: t.Score})
		}
		breed.Traits = append(breed.Traits, group)
	}
	return breed
}

// ToDomainBreeds maps a transport catalog.
func ToDomainBreeds(input []Breed) []domain.Breed {
	out := make([]domain.Breed, 0, len(input))
	for _, b := range input {
		out = append(out, ToDomainBreed(b))
	}
	return out
}

// FromBreed maps a domain breed to its transport form.
func FromBreed(breed domain.Breed) Breed {
	out := Breed{
		Name:       breed.Name,
		BreedGroup: breed.BreedGroup,
		Traits:     make([]TraitGroup, 0, len(breed.Traits)),
	}
	for _, g := range breed.Traits {
		group := TraitGroup{Name: g.Name, Score: g.Score, Traits: make([]Trait, 0, len(g.Traits))}
		for _, t := range g.Traits {
			group.Traits = append(group.Traits, Trait{Name: t.Name, Score: t.Score})
		}
		out.Traits = append(out.Traits, group)
	}
	return out
}

// FromBreeds maps a slice of breeds, never returning nil.
func FromBreeds(breeds []domain.Breed) []Breed {
	out := make([]Breed, 0, len(breeds))
	for _, b := range breeds {
		out = append(out, FromBreed(b))
	}
	return out
}

// FromMatch maps a scored breed.
func FromMatch(match types.BreedMatch) BreedMatch {
	return BreedMatch{Breed: FromBreed(match.Breed), Percentage: match.Percentage}
}

// FromMatches maps a ranking.
func FromMatches(matches []types.BreedMatch) []BreedMatch {
	out := make([]BreedMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, FromMatch(m))
	}
	return out
}

// ToSearchInput maps a stateless search request.
func ToSearchInput(req SearchRequest) types.SearchInput {
	return types.SearchInput{
		SearchText:  req.SearchText,
		Preferences: req.Preferences,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
}

// FromSearchResult maps a result page.
func FromSearchResult(result *types.SearchResult) SearchPage {
	if result == nil {
		return SearchPage{Breeds: []Breed{}}
	}
	return SearchPage{
		Breeds:         FromBreeds(result.Breeds),
		TotalMatches:   result.TotalMatches,
		Page:           result.Page,
		PageSize:       result.PageSize,
		HasMore:        result.HasMore,
		CatalogVersion: result.CatalogVersion,
	}
}

// ToUpdateSessionInput maps a session patch.
func ToUpdateSessionInput(id string, req UpdateSessionRequest) types.UpdateSessionInput {
	return types.UpdateSessionInput{
		ID:               id,
		SearchText:       req.SearchText,
		Preferences:      req.Preferences,
		ResetPreferences: req.ResetPreferences,
		Flush:            req.Flush,
	}
}

// FromSessionView maps a session snapshot.
func FromSessionView(view *types.SessionView) Session {
	if view == nil {
		return Session{Breeds: []Breed{}}
	}
	prefs := view.Preferences
	if prefs == nil {
		prefs = domain.Preferences{}
	}
	return Session{
		ID:             view.ID,
		SearchText:     view.SearchText,
		Preferences:    prefs,
		Breeds:         FromBreeds(view.Breeds),
		Page:           view.Page,
		PageSize:       view.PageSize,
		TotalMatches:   view.TotalMatches,
		HasMore:        view.HasMore,
		Loading:        view.Loading,
		CatalogVersion: view.CatalogVersion,
		OpenedAt:       view.OpenedAt,
		LastActiveAt:   view.LastActiveAt,
	}
}

// FromCatalogImport maps an import summary.
func FromCatalogImport(result *types.CatalogImportResult) CatalogImport {
	if result == nil {
		return CatalogImport{Groups: []string{}}
	}
	groups := result.Groups
	if groups == nil {
		groups = []string{}
	}
	return CatalogImport{
		Version:         result.Version,
		Breeds:          result.Breeds,
		ExcludedHybrids: result.ExcludedHybrids,
		Groups:          groups,
	}
}
