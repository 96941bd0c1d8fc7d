package application

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// DefaultGroupWeights weighs trait groups in the match percentage. Unlisted groups
// weigh 1.0.
func DefaultGroupWeights() map[string]float64 {
	return map[string]float64{
		"Adaptability":              1.2,
		"All-around friendliness":   1.5,
		"Health And Grooming Needs": 1.0,
		"Trainability":              1.3,
		"Exercise needs":            1.4,
	}
}

// Matcher computes the weighted compatibility between a breed and a preference map.
type Matcher struct {
	policy  domain.TraitPolicy
	weights map[string]float64
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithMatchPolicy replaces the trait policy.
func WithMatchPolicy(policy domain.TraitPolicy) MatcherOption {
	return func(m *Matcher) {
		m.policy = policy
	}
}

// WithGroupWeights replaces the group weight table.
func WithGroupWeights(weights map[string]float64) MatcherOption {
	return func(m *Matcher) {
		if weights == nil {
			return
		}
		m.weights = make(map[string]float64, len(weights))
		for k, v := range weights {
			m.weights[k] = v
		}
	}
}

// NewMatcher builds a matcher with the default policy and weights.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{policy: domain.DefaultMatchPolicy(), weights: DefaultGroupWeights()}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

var defaultMatcher = NewMatcher()

// CalculateBreedMatch scores breed against prefs with the default matcher.
func CalculateBreedMatch(breed domain.Breed, prefs domain.Preferences) float64 {
	return defaultMatcher.BreedMatch(breed, prefs)
}

// CalculateTraitMatch scores one trait with the default matcher's policy.
func CalculateTraitMatch(trait string, score float64, pref domain.Preference) float64 {
	return defaultMatcher.TraitMatch(trait, score, pref)
}

// Policy returns the matcher's trait policy.
func (m *Matcher) Policy() domain.TraitPolicy { return m.policy }

// BreedMatch returns a 0–100 percentage. It is 0 when the breed has no trait groups
// or prefs is empty.
func (m *Matcher) BreedMatch(breed domain.Breed, prefs domain.Preferences) float64 {
	if len(breed.Traits) == 0 || len(prefs) == 0 {
		return 0
	}
	var totalScore, totalWeight float64
	for _, name := range prefs.Keys() {
		group, trait, ok := breed.FindTrait(name)
		if !ok {
			if m.policy.Unmatched == domain.UnmatchedPass {
				totalScore++
				totalWeight++
			}
			continue
		}
		weight := m.weight(group.Name)
		totalScore += m.TraitMatch(name, trait.Score, prefs[name]) * weight
		totalWeight += weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return totalScore / totalWeight * 100
}

// TraitMatch returns the 0.0–1.0 match of one trait score against a preference.
func (m *Matcher) TraitMatch(trait string, score float64, pref domain.Preference) float64 {
	return m.policy.Degree(trait, score, pref)
}

// Fingerprint identifies the matcher configuration; matchers with equal policies and
// weights share it.
func (m *Matcher) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%v|%s|", m.policy.Scale, m.policy.Bands, m.policy.Unmatched)
	reverse := make([]string, 0, len(m.policy.Reverse))
	for name := range m.policy.Reverse {
		reverse = append(reverse, name)
	}
	sort.Strings(reverse)
	b.WriteString(strings.Join(reverse, ","))
	groups := make([]string, 0, len(m.weights))
	for name := range m.weights {
		groups = append(groups, name)
	}
	sort.Strings(groups)
	for _, name := range groups {
		fmt.Fprintf(&b, "|%s=%g", name, m.weights[name])
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:6])
}

func (m *Matcher) weight(group string) float64 {
	if w, ok := m.weights[group]; ok {
		return w
	}
	return 1.0
}
