package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBand_ContainsRespectsOpenEdges(t *testing.T) {
	closed := Band{Min: 0.3, Max: 0.7}
	require.True(t, closed.Contains(0.3))
	require.True(t, closed.Contains(0.7))
	require.False(t, closed.Contains(0.71))

	open := Band{Min: 2, Max: 4, OpenMin: true, OpenMax: true}
	require.False(t, open.Contains(2))
	require.False(t, open.Contains(4))
	require.True(t, open.Contains(3))
}

func TestMatchPolicy_ReverseBoolean(t *testing.T) {
	policy := DefaultMatchPolicy()

	// Raw 2 normalizes to 0.25: low shedding present.
	assert.Equal(t, 1.0, policy.Degree("Shedding", 2, Want(true)))
	assert.Equal(t, 0.0, policy.Degree("Shedding", 2, Want(false)))

	// Non-reverse trait wants high values.
	assert.Equal(t, 0.0, policy.Degree("Energy Level", 2, Want(true)))
	assert.Equal(t, 1.0, policy.Degree("Energy Level", 4, Want(true)))

	// Midpoint counts on both sides.
	assert.Equal(t, 1.0, policy.Degree("Shedding", 3, Want(true)))
	assert.Equal(t, 1.0, policy.Degree("Energy Level", 3, Want(true)))
}

func TestMatchPolicy_LevelPartialCredit(t *testing.T) {
	policy := DefaultMatchPolicy()

	assert.Equal(t, 1.0, policy.Degree("Energy Level", 5, AtLevel(LevelHigh)))
	assert.Equal(t, 1.0, policy.Degree("Energy Level", 1, AtLevel(LevelLow)))
	// Raw 3.5 -> 0.625, which is 0.075 under the High band.
	assert.InDelta(t, 0.925, policy.Degree("Energy Level", 3.5, AtLevel(LevelHigh)), 1e-9)
	// Raw 5 -> 1.0, distance 0.7 from the Low band.
	assert.InDelta(t, 0.3, policy.Degree("Energy Level", 5, AtLevel(LevelLow)), 1e-9)
}

func TestMatchPolicy_UnsetAndInvalidLevelScoreZero(t *testing.T) {
	policy := DefaultMatchPolicy()
	assert.Equal(t, 0.0, policy.Degree("Energy Level", 4, Unset()))
	assert.Equal(t, 0.0, policy.Degree("Energy Level", 4, AtLevel(Level(7))))
}

func TestFilterPolicy_RawBands(t *testing.T) {
	policy := DefaultFilterPolicy()

	assert.True(t, policy.Satisfies("Energy Level", 2.5, AtLevel(LevelLow)))
	assert.False(t, policy.Satisfies("Energy Level", 3, AtLevel(LevelLow)))
	assert.False(t, policy.Satisfies("Energy Level", 2, AtLevel(LevelMedium)))
	assert.True(t, policy.Satisfies("Energy Level", 3, AtLevel(LevelMedium)))
	assert.False(t, policy.Satisfies("Energy Level", 4, AtLevel(LevelMedium)))
	assert.True(t, policy.Satisfies("Energy Level", 3.5, AtLevel(LevelHigh)))
	assert.False(t, policy.Satisfies("Energy Level", 3.4, AtLevel(LevelHigh)))
}

func TestFilterPolicy_ReverseSetUsesBarking(t *testing.T) {
	filter := DefaultFilterPolicy()
	match := DefaultMatchPolicy()

	require.True(t, filter.IsReverse("Barking"))
	require.False(t, filter.IsReverse("Tendency To Bark Or Howl"))
	require.True(t, match.IsReverse("Tendency To Bark Or Howl"))
	require.False(t, match.IsReverse("Barking"))

	// A quiet breed: true on "Tendency To Bark Or Howl" is read as want-high by the filter.
	assert.False(t, filter.Satisfies("Tendency To Bark Or Howl", 1, Want(true)))
	assert.True(t, filter.Satisfies("Barking", 1, Want(true)))
}

func TestFilterPolicy_UnsetFails(t *testing.T) {
	policy := DefaultFilterPolicy()
	assert.False(t, policy.Satisfies("Shedding", 1, Unset()))
	assert.False(t, policy.Satisfies("Shedding", 1, AtLevel(Level(-1))))
}
