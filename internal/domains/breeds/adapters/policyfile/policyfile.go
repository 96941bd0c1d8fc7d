// Package policyfile loads trait policy overrides from YAML.
//
//	match:
//	  scale: normalized
//	  reverseTraits: [Shedding, Drooling]
//	  bands:
//	    high: {min: 0.6, max: 1}
//	  groupWeights:
//	    Trainability: 2
//	filter:
//	  unmatched: pass
//
// Anything left out keeps its default.
package policyfile

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// ErrInvalidPolicy signals a policy file that parses but cannot be applied.
var ErrInvalidPolicy = errors.New("invalid trait policy")

// Policies is the resolved configuration of the scorer and the search filter.
type Policies struct {
	Match        domain.TraitPolicy
	Filter       domain.TraitPolicy
	GroupWeights map[string]float64
}

// Defaults returns the built-in policies.
func Defaults() Policies {
	return Policies{
		Match:        domain.DefaultMatchPolicy(),
		Filter:       domain.DefaultFilterPolicy(),
		GroupWeights: application.DefaultGroupWeights(),
	}
}

// Matcher builds a scorer from the match policy and weights.
func (p Policies) Matcher() *application.Matcher {
	return application.NewMatcher(
		application.WithMatchPolicy(p.Match),
		application.WithGroupWeights(p.GroupWeights),
	)
}

type file struct {
	Match  *section `yaml:"match"`
	Filter *section `yaml:"filter"`
}

type section struct {
	Scale         string             `yaml:"scale"`
	ReverseTraits []string           `yaml:"reverseTraits"`
	Unmatched     string             `yaml:"unmatched"`
	Bands         *bands             `yaml:"bands"`
	GroupWeights  map[string]float64 `yaml:"groupWeights"`
}

type bands struct {
	Low    *domain.Band `yaml:"low"`
	Medium *domain.Band `yaml:"medium"`
	High   *domain.Band `yaml:"high"`
}

// Load reads a policy file. An empty path yields the defaults.
func Load(path string) (Policies, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policies{}, fmt.Errorf("failed to read policy file: %w", err)
	}
	return Parse(data)
}

// Parse applies a YAML document over the defaults.
func Parse(data []byte) (Policies, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Policies{}, fmt.Errorf("failed to parse policy file: %w", err)
	}
	policies := Defaults()
	if doc.Match != nil {
		if err := doc.Match.apply(&policies.Match); err != nil {
			return Policies{}, fmt.Errorf("match: %w", err)
		}
		if len(doc.Match.GroupWeights) > 0 {
			for group, w := range doc.Match.GroupWeights {
				if w <= 0 {
					return Policies{}, fmt.Errorf("match: %w: weight of %q must be positive", ErrInvalidPolicy, group)
				}
				policies.GroupWeights[group] = w
			}
		}
	}
	if doc.Filter != nil {
		if len(doc.Filter.GroupWeights) > 0 {
			return Policies{}, fmt.Errorf("filter: %w: groupWeights only apply to match", ErrInvalidPolicy)
		}
		if err := doc.Filter.apply(&policies.Filter); err != nil {
			return Policies{}, fmt.Errorf("filter: %w", err)
		}
	}
	return policies, nil
}

func (s *section) apply(policy *domain.TraitPolicy) error {
	switch domain.Scale(s.Scale) {
	case "":
	case domain.ScaleNormalized, domain.ScaleRaw:
		policy.Scale = domain.Scale(s.Scale)
	default:
		return fmt.Errorf("%w: unknown scale %q", ErrInvalidPolicy, s.Scale)
	}
	switch domain.UnmatchedRule(s.Unmatched) {
	case "":
	case domain.UnmatchedSkip, domain.UnmatchedPass:
		policy.Unmatched = domain.UnmatchedRule(s.Unmatched)
	default:
		return fmt.Errorf("%w: unknown unmatched rule %q", ErrInvalidPolicy, s.Unmatched)
	}
	if s.ReverseTraits != nil {
		policy.Reverse = domain.NewReverseSet(s.ReverseTraits...)
	}
	if s.Bands != nil {
		for level, band := range map[domain.Level]*domain.Band{
			domain.LevelLow:    s.Bands.Low,
			domain.LevelMedium: s.Bands.Medium,
			domain.LevelHigh:   s.Bands.High,
		} {
			if band == nil {
				continue
			}
			if band.Min > band.Max {
				return fmt.Errorf("%w: %s band min %v exceeds max %v", ErrInvalidPolicy, level, band.Min, band.Max)
			}
			policy.Bands[level] = *band
		}
	}
	return nil
}
