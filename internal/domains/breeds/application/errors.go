package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid breeds input")

var (
	ErrEmptyCatalog   = errors.New("catalog has no breeds")
	ErrDuplicateBreed = errors.New("duplicate breed name")
	ErrInvalidPaging  = errors.New("page or pageSize out of range")
	ErrEmptySessionID = errors.New("session id is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) {
		return err
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrScoreOutOfRange) ||
		errors.Is(err, domain.ErrEmptyTraitName) ||
		errors.Is(err, domain.ErrInvalidPreference) ||
		errors.Is(err, ErrEmptyCatalog) ||
		errors.Is(err, ErrDuplicateBreed) ||
		errors.Is(err, ErrInvalidPaging) ||
		errors.Is(err, ErrEmptySessionID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
