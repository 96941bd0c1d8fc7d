// Package bundled ships the default breed catalog inside the binary.
package bundled

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

//go:embed breeds.json
var breedsJSON []byte

// Breeds decodes the bundled catalog. Every call returns a fresh slice.
func Breeds() ([]domain.Breed, error) {
	return Decode(bytes.NewReader(breedsJSON))
}

// Decode reads a catalog document: a JSON array of breeds. Unknown fields are
// rejected so typos in hand-edited files surface early.
func Decode(r io.Reader) ([]domain.Breed, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var breeds []domain.Breed
	if err := dec.Decode(&breeds); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return breeds, nil
}
