package domain

import "math"

// Scale selects the coordinate system trait scores are compared in.
type Scale string

const (
	// ScaleNormalized maps the 1–5 score onto 0.0–1.0 via (score-1)/4.
	ScaleNormalized Scale = "normalized"
	// ScaleRaw compares the 1–5 score directly.
	ScaleRaw Scale = "raw"
)

// UnmatchedRule decides what happens when a preference names a trait the breed lacks.
type UnmatchedRule string

const (
	// UnmatchedSkip drops the preference from the evaluation.
	UnmatchedSkip UnmatchedRule = "skip"
	// UnmatchedPass treats the preference as satisfied.
	UnmatchedPass UnmatchedRule = "pass"
)

// Band is an interval on the policy scale. Edges are inclusive unless marked open.
type Band struct {
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	OpenMin bool    `yaml:"openMin" json:"openMin,omitempty"`
	OpenMax bool    `yaml:"openMax" json:"openMax,omitempty"`
}

// Contains reports whether x falls inside the band.
func (b Band) Contains(x float64) bool {
	if b.OpenMin {
		if x <= b.Min {
			return false
		}
	} else if x < b.Min {
		return false
	}
	if b.OpenMax {
		return x < b.Max
	}
	return x <= b.Max
}

// Distance is the smallest absolute distance from x to either edge.
func (b Band) Distance(x float64) float64 {
	return math.Min(math.Abs(x-b.Min), math.Abs(x-b.Max))
}

// TraitPolicy is the single description of how a preference is evaluated against a
// trait score. The matcher and the filter pipeline each hold one.
type TraitPolicy struct {
	Name      string
	Scale     Scale
	Reverse   map[string]struct{}
	Bands     [3]Band
	Unmatched UnmatchedRule
}

// DefaultMatchPolicy is the convention used by the match scorer.
func DefaultMatchPolicy() TraitPolicy {
	return TraitPolicy{
		Name:    "match",
		Scale:   ScaleNormalized,
		Reverse: NewReverseSet("Shedding", "Drooling", "Tendency To Bark Or Howl", "Prey Drive"),
		Bands: [3]Band{
			LevelLow:    {Min: 0, Max: 0.3},
			LevelMedium: {Min: 0.3, Max: 0.7},
			LevelHigh:   {Min: 0.7, Max: 1.0},
		},
		Unmatched: UnmatchedSkip,
	}
}

// DefaultFilterPolicy is the convention used by the search pipeline. Its reverse set
// names "Barking" rather than "Tendency To Bark Or Howl" and its bands live on the
// raw scale.
func DefaultFilterPolicy() TraitPolicy {
	return TraitPolicy{
		Name:    "filter",
		Scale:   ScaleRaw,
		Reverse: NewReverseSet("Shedding", "Drooling", "Barking", "Prey Drive"),
		Bands: [3]Band{
			LevelLow:    {Min: MinTraitScore, Max: 2.5},
			LevelMedium: {Min: 2, Max: 4, OpenMin: true, OpenMax: true},
			LevelHigh:   {Min: 3.5, Max: MaxTraitScore},
		},
		Unmatched: UnmatchedPass,
	}
}

// NewReverseSet builds the reverse-trait lookup.
func NewReverseSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// IsReverse reports whether a true preference on the trait asks for low values.
func (p TraitPolicy) IsReverse(trait string) bool {
	_, ok := p.Reverse[trait]
	return ok
}

// Position places a raw 1–5 score on the policy scale.
func (p TraitPolicy) Position(score float64) float64 {
	if p.Scale == ScaleRaw {
		return score
	}
	return (score - MinTraitScore) / (MaxTraitScore - MinTraitScore)
}

// Midpoint is the boolean threshold on the policy scale.
func (p TraitPolicy) Midpoint() float64 {
	if p.Scale == ScaleRaw {
		return (MinTraitScore + MaxTraitScore) / 2
	}
	return 0.5
}

// Satisfies is the pass/fail evaluation used by the filter pipeline. Unset
// preferences and unrecognised levels fail.
func (p TraitPolicy) Satisfies(trait string, score float64, pref Preference) bool {
	pos := p.Position(score)
	switch pref.Kind() {
	case KindBool:
		want, _ := pref.Bool()
		return want == p.boolSide(trait, pos)
	case KindLevel:
		level, _ := pref.Level()
		if !level.Valid() {
			return false
		}
		return p.Bands[level].Contains(pos)
	default:
		return false
	}
}

// Degree is the graded 0.0–1.0 evaluation used by the matcher. Booleans are all or
// nothing; levels outside their band fall off linearly with distance.
func (p TraitPolicy) Degree(trait string, score float64, pref Preference) float64 {
	pos := p.Position(score)
	switch pref.Kind() {
	case KindBool:
		want, _ := pref.Bool()
		if want == p.boolSide(trait, pos) {
			return 1
		}
		return 0
	case KindLevel:
		level, _ := pref.Level()
		if !level.Valid() {
			return 0
		}
		band := p.Bands[level]
		if band.Contains(pos) {
			return 1
		}
		return math.Max(0, 1-band.Distance(pos))
	default:
		return 0
	}
}

func (p TraitPolicy) boolSide(trait string, pos float64) bool {
	if p.IsReverse(trait) {
		return pos <= p.Midpoint()
	}
	return pos >= p.Midpoint()
}
