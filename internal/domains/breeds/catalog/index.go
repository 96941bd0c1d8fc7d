package catalog

import (
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// DefaultPageSize is the number of breeds revealed per page.
const DefaultPageSize = 8

// maxMemoEntries bounds the per-preference bitmap cache; trait names come from
// callers and are unbounded.
const maxMemoEntries = 1024

// Criteria is the filter input of one recompute.
type Criteria struct {
	SearchText  string
	Preferences domain.Preferences
}

// Page is a cumulative slice of the filtered catalog: page N holds the first
// N*PageSize matches.
type Page struct {
	Breeds       []domain.Breed
	TotalMatches int
	Page         int
	PageSize     int
	HasMore      bool
}

// Index filters a catalog under one trait policy. Each (trait, preference) pair is
// evaluated once per index and kept as a bitmap of passing positions.
type Index struct {
	catalog *Catalog
	policy  domain.TraitPolicy
	all     *roaring.Bitmap

	mu   sync.RWMutex
	memo map[string]*roaring.Bitmap
}

// NewIndex prepares an index over c.
func NewIndex(c *Catalog, policy domain.TraitPolicy) *Index {
	all := roaring.New()
	if c.Len() > 0 {
		all.AddRange(0, uint64(c.Len()))
	}
	return &Index{
		catalog: c,
		policy:  policy,
		all:     all,
		memo:    map[string]*roaring.Bitmap{},
	}
}

// Catalog returns the indexed snapshot.
func (ix *Index) Catalog() *Catalog { return ix.catalog }

// Policy returns the trait policy the index evaluates with.
func (ix *Index) Policy() domain.TraitPolicy { return ix.policy }

// Matches returns the positions passing the text filter and every preference.
func (ix *Index) Matches(criteria Criteria) *roaring.Bitmap {
	result := ix.all.Clone()
	if criteria.SearchText != "" {
		result.And(ix.textMatches(strings.ToLower(criteria.SearchText)))
	}
	for _, name := range criteria.Preferences.Keys() {
		if result.IsEmpty() {
			break
		}
		result.And(ix.passing(name, criteria.Preferences[name]))
	}
	return result
}

// Search filters the catalog and cuts the cumulative page.
func (ix *Index) Search(criteria Criteria, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	matches := ix.Matches(criteria)
	total := int(matches.GetCardinality())
	// Pages past the last one reveal everything; clamping first keeps
	// page*pageSize from overflowing.
	limit := total
	if lastPage := (total + pageSize - 1) / pageSize; page <= lastPage {
		limit = page * pageSize
	}

	visible := make([]domain.Breed, 0, min(total, limit))
	it := matches.Iterator()
	for it.HasNext() && len(visible) < limit {
		visible = append(visible, ix.catalog.At(int(it.Next())))
	}
	return Page{
		Breeds:       visible,
		TotalMatches: total,
		Page:         page,
		PageSize:     pageSize,
		HasMore:      total > limit,
	}
}

func (ix *Index) textMatches(needle string) *roaring.Bitmap {
	bm := roaring.New()
	for i, name := range ix.catalog.lowerNames {
		if strings.Contains(name, needle) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

func (ix *Index) passing(trait string, pref domain.Preference) *roaring.Bitmap {
	key := trait + "\x00" + pref.String()
	ix.mu.RLock()
	cached, ok := ix.memo[key]
	ix.mu.RUnlock()
	if ok {
		return cached
	}

	bm := roaring.New()
	for i := 0; i < ix.catalog.Len(); i++ {
		if ix.evaluate(ix.catalog.breed(i), trait, pref) {
			bm.Add(uint32(i))
		}
	}

	ix.mu.Lock()
	if len(ix.memo) < maxMemoEntries {
		ix.memo[key] = bm
	}
	ix.mu.Unlock()
	return bm
}

// evaluate is the trait predicate of the pipeline. A null entry fails every breed;
// a breed lacking the trait is not constrained by the entry.
func (ix *Index) evaluate(b *domain.Breed, trait string, pref domain.Preference) bool {
	if pref.Kind() == domain.KindUnset {
		return false
	}
	_, found, ok := b.FindTrait(trait)
	if !ok {
		return true
	}
	return ix.policy.Satisfies(trait, found.Score, pref)
}
