// Package breedstest provides breed fixtures shared by package tests.
package breedstest

import (
	"fmt"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
)

// T builds a trait.
func T(name string, score float64) domain.Trait {
	return domain.Trait{Name: name, Score: score}
}

// Group builds a trait group; its informational score is the trait mean.
func Group(name string, traits ...domain.Trait) domain.TraitGroup {
	var sum float64
	for _, t := range traits {
		sum += t.Score
	}
	score := 0.0
	if len(traits) > 0 {
		score = sum / float64(len(traits))
	}
	return domain.TraitGroup{Name: name, Score: score, Traits: traits}
}

// Breed builds a breed record.
func Breed(name, group string, traitGroups ...domain.TraitGroup) domain.Breed {
	return domain.Breed{Name: name, BreedGroup: group, Traits: traitGroups}
}

// Golden is a retriever profile: friendly, heavy shedder, low drool.
func Golden() domain.Breed {
	return Breed("Golden Retriever", "sporting",
		Group("Adaptability", T("Adapts Well To Apartment Living", 2), T("Tolerates Being Alone", 1)),
		Group("All-around friendliness", T("Kid-Friendly", 5), T("Dog Friendly", 5)),
		Group("Health And Grooming Needs", T("Shedding", 4), T("Drooling", 2)),
		Group("Trainability", T("Easy To Train", 5), T("Prey Drive", 2), T("Tendency To Bark Or Howl", 1)),
		Group("Exercise needs", T("Energy Level", 5)),
	)
}

// Basenji is a quiet, low-shedding hound with high prey drive.
func Basenji() domain.Breed {
	return Breed("Basenji", "hound",
		Group("Adaptability", T("Adapts Well To Apartment Living", 3), T("Tolerates Being Alone", 2)),
		Group("All-around friendliness", T("Kid-Friendly", 3), T("Dog Friendly", 3)),
		Group("Health And Grooming Needs", T("Shedding", 1), T("Drooling", 1)),
		Group("Trainability", T("Easy To Train", 1), T("Prey Drive", 5), T("Tendency To Bark Or Howl", 1)),
		Group("Exercise needs", T("Energy Level", 4)),
	)
}

// Mastiff drools, sheds moderately and is calm.
func Mastiff() domain.Breed {
	return Breed("Mastiff", "working",
		Group("Adaptability", T("Adapts Well To Apartment Living", 4), T("Tolerates Being Alone", 3)),
		Group("All-around friendliness", T("Kid-Friendly", 4), T("Dog Friendly", 3)),
		Group("Health And Grooming Needs", T("Shedding", 3), T("Drooling", 5)),
		Group("Trainability", T("Easy To Train", 3), T("Prey Drive", 2), T("Tendency To Bark Or Howl", 2)),
		Group("Exercise needs", T("Energy Level", 2)),
	)
}

// Labradoodle is a hybrid and must never surface in searches.
func Labradoodle() domain.Breed {
	return Breed("Labradoodle", domain.HybridGroup,
		Group("Health And Grooming Needs", T("Shedding", 1), T("Drooling", 1)),
		Group("Exercise needs", T("Energy Level", 4)),
	)
}

// Sample returns a small mixed catalog including one hybrid.
func Sample() []domain.Breed {
	return []domain.Breed{Golden(), Labradoodle(), Basenji(), Mastiff()}
}

// Numbered returns n breeds named "Breed 01".."Breed n" whose Energy Level cycles
// through 1–5.
func Numbered(n int) []domain.Breed {
	breeds := make([]domain.Breed, 0, n)
	for i := 1; i <= n; i++ {
		energy := float64((i-1)%5 + 1)
		breeds = append(breeds, Breed(fmt.Sprintf("Breed %02d", i), "numbered",
			Group("Exercise needs", T("Energy Level", energy)),
		))
	}
	return breeds
}
