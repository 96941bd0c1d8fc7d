package bundled

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/catalog"
)

func TestBreeds_IsAValidCatalog(t *testing.T) {
	breeds, err := Breeds()
	require.NoError(t, err)
	require.NoError(t, application.ValidateCatalog(breeds))

	c := catalog.New(breeds)
	require.Equal(t, len(breeds)-1, c.Len())
	require.Equal(t, 1, c.ExcludedHybrids())

	for _, b := range c.Breeds() {
		_, _, ok := b.FindTrait("Tendency To Bark Or Howl")
		require.True(t, ok, b.Name)
	}
}

func TestBreeds_ReturnsFreshSlices(t *testing.T) {
	first, err := Breeds()
	require.NoError(t, err)
	first[0].Name = "changed"

	second, err := Breeds()
	require.NoError(t, err)
	require.Equal(t, "Labrador Retriever", second[0].Name)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"name":"A","breedGroup":"x","traits":[],"colour":"red"}]`))
	require.Error(t, err)
}
