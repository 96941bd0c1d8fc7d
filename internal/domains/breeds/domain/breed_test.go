package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleBreed() Breed {
	return Breed{
		Name:       "Golden Retriever",
		BreedGroup: "sporting",
		Traits: []TraitGroup{
			{Name: "Adaptability", Score: 3, Traits: []Trait{{Name: "Adapts Well To Apartment Living", Score: 2}}},
			{Name: "Health And Grooming Needs", Score: 3, Traits: []Trait{{Name: "Shedding", Score: 4}, {Name: "Drooling", Score: 2}}},
			{Name: "Exercise needs", Score: 4, Traits: []Trait{{Name: "Shedding", Score: 1}}},
		},
	}
}

func TestBreed_FindTraitFirstGroupWins(t *testing.T) {
	group, trait, ok := sampleBreed().FindTrait("Shedding")
	require.True(t, ok)
	require.Equal(t, "Health And Grooming Needs", group.Name)
	require.Equal(t, 4.0, trait.Score)

	_, _, ok = sampleBreed().FindTrait("Barking")
	require.False(t, ok)
}

func TestBreed_Validate(t *testing.T) {
	require.NoError(t, sampleBreed().Validate())
	require.ErrorIs(t, Breed{}.Validate(), ErrEmptyName)

	bad := sampleBreed()
	bad.Traits[1].Traits[0].Score = 6
	require.ErrorIs(t, bad.Validate(), ErrScoreOutOfRange)

	bad = sampleBreed()
	bad.Traits[0].Traits[0].Name = " "
	require.ErrorIs(t, bad.Validate(), ErrEmptyTraitName)

	// Breeds without traits are tolerated.
	require.NoError(t, Breed{Name: "Mystery"}.Validate())
}

func TestBreed_CloneIsDeep(t *testing.T) {
	original := sampleBreed()
	clone := original.Clone()
	clone.Traits[0].Traits[0].Score = 5
	require.Equal(t, 2.0, original.Traits[0].Traits[0].Score)
}

func TestBreed_IsHybrid(t *testing.T) {
	require.True(t, Breed{Name: "Labradoodle", BreedGroup: HybridGroup}.IsHybrid())
	require.False(t, sampleBreed().IsHybrid())
}
