package application

import (
	"fmt"
	"strings"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// ValidateCatalog checks an import candidate: at least one breed, every record
// valid and names unique ignoring case. The first violation is reported.
func ValidateCatalog(breeds []domain.Breed) error {
	if len(breeds) == 0 {
		return mapError(ErrEmptyCatalog)
	}
	seen := make(map[string]int, len(breeds))
	for i, b := range breeds {
		if err := b.Validate(); err != nil {
			return mapError(fmt.Errorf("breed %d: %w", i, err))
		}
		key := strings.ToLower(strings.TrimSpace(b.Name))
		if first, dup := seen[key]; dup {
			return mapError(fmt.Errorf("%w: %q at %d and %d", ErrDuplicateBreed, b.Name, first, i))
		}
		seen[key] = i
	}
	return nil
}
