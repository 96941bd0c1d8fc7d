// Package catalog holds the immutable, shared breed working set and the bitmap
// index the search pipeline filters it with.
package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// Catalog is a read-only snapshot of the breed working set. Hybrids are dropped
// once, at construction.
type Catalog struct {
	breeds     []domain.Breed
	lowerNames []string
	byName     map[string]int
	groups     []string
	hybrids    int
	version    string
}

// New builds a catalog from the loaded records. The input slice is copied.
func New(breeds []domain.Breed) *Catalog {
	c := &Catalog{
		breeds: make([]domain.Breed, 0, len(breeds)),
		byName: make(map[string]int, len(breeds)),
	}
	groups := map[string]struct{}{}
	for _, b := range breeds {
		if b.IsHybrid() {
			c.hybrids++
			continue
		}
		lower := strings.ToLower(b.Name)
		if _, dup := c.byName[lower]; !dup {
			c.byName[lower] = len(c.breeds)
		}
		c.breeds = append(c.breeds, b.Clone())
		c.lowerNames = append(c.lowerNames, lower)
		if b.BreedGroup != "" {
			groups[b.BreedGroup] = struct{}{}
		}
	}
	for g := range groups {
		c.groups = append(c.groups, g)
	}
	sort.Strings(c.groups)
	c.version = fingerprint(c.breeds)
	return c
}

// Len is the number of breeds in the working set.
func (c *Catalog) Len() int { return len(c.breeds) }

// ExcludedHybrids counts the hybrid records dropped at load.
func (c *Catalog) ExcludedHybrids() int { return c.hybrids }

// Version is a content hash; two catalogs with the same breeds share it.
func (c *Catalog) Version() string { return c.version }

// Groups lists the distinct breed groups in sorted order.
func (c *Catalog) Groups() []string { return append([]string(nil), c.groups...) }

// Breeds returns copies of every breed in catalog order.
func (c *Catalog) Breeds() []domain.Breed {
	out := make([]domain.Breed, len(c.breeds))
	for i, b := range c.breeds {
		out[i] = b.Clone()
	}
	return out
}

// At returns a copy of the breed at position i.
func (c *Catalog) At(i int) domain.Breed {
	return c.breeds[i].Clone()
}

// ByName looks a breed up case-insensitively.
func (c *Catalog) ByName(name string) (domain.Breed, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.Breed{}, false
	}
	return c.breeds[i].Clone(), true
}

// ByGroup returns the breeds of one group, or all breeds when group is empty.
func (c *Catalog) ByGroup(group string) []domain.Breed {
	if group == "" {
		return c.Breeds()
	}
	var out []domain.Breed
	for _, b := range c.breeds {
		if strings.EqualFold(b.BreedGroup, group) {
			out = append(out, b.Clone())
		}
	}
	return out
}

func (c *Catalog) breed(i int) *domain.Breed { return &c.breeds[i] }

func fingerprint(breeds []domain.Breed) string {
	raw, err := json.Marshal(breeds)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
