package domain

import (
	"errors"
	"fmt"
	"strings"
)

// HybridGroup is the breed group excluded from the working catalog.
const HybridGroup = "hybrid"

// Score bounds for a single trait.
const (
	MinTraitScore = 1.0
	MaxTraitScore = 5.0
)

// Trait is a single scored characteristic of a breed.
type Trait struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// TraitGroup clusters related traits. Score is informational only.
type TraitGroup struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Traits []Trait `json:"traits"`
}

// Breed is a catalog record. Name acts as the key.
type Breed struct {
	Name       string       `json:"name"`
	BreedGroup string       `json:"breedGroup"`
	Traits     []TraitGroup `json:"traits"`
}

var (
	ErrEmptyName       = errors.New("breed name is required")
	ErrScoreOutOfRange = errors.New("trait score must be between 1 and 5")
	ErrEmptyTraitName  = errors.New("trait name is required")
)

// IsHybrid reports whether the breed belongs to the hybrid group.
func (b Breed) IsHybrid() bool {
	return b.BreedGroup == HybridGroup
}

// FindTrait returns the first trait with the given name together with the group
// containing it. Groups and traits are scanned in catalog order.
func (b Breed) FindTrait(name string) (TraitGroup, Trait, bool) {
	for _, group := range b.Traits {
		for _, trait := range group.Traits {
			if trait.Name == name {
				return group, trait, true
			}
		}
	}
	return TraitGroup{}, Trait{}, false
}

// Validate checks the invariants required before a breed enters a catalog import.
func (b Breed) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	for _, group := range b.Traits {
		for _, trait := range group.Traits {
			if strings.TrimSpace(trait.Name) == "" {
				return fmt.Errorf("%s/%s: %w", b.Name, group.Name, ErrEmptyTraitName)
			}
			if trait.Score < MinTraitScore || trait.Score > MaxTraitScore {
				return fmt.Errorf("%s/%s: %w (got %v)", b.Name, trait.Name, ErrScoreOutOfRange, trait.Score)
			}
		}
	}
	return nil
}

// TraitNames lists every trait name of the breed in catalog order.
func (b Breed) TraitNames() []string {
	var names []string
	for _, group := range b.Traits {
		for _, trait := range group.Traits {
			names = append(names, trait.Name)
		}
	}
	return names
}

// Clone returns a deep copy of the breed.
func (b Breed) Clone() Breed {
	clone := Breed{Name: b.Name, BreedGroup: b.BreedGroup}
	if b.Traits == nil {
		return clone
	}
	clone.Traits = make([]TraitGroup, len(b.Traits))
	for i, group := range b.Traits {
		clone.Traits[i] = TraitGroup{
			Name:   group.Name,
			Score:  group.Score,
			Traits: append([]Trait(nil), group.Traits...),
		}
	}
	return clone
}
