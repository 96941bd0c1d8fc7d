package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&breedRecord{},
	)
}

// Breed schema mirrors the breeds Postgres adapter.
type breedRecord struct {
	Name       string         `gorm:"primaryKey;column:name;size:128"`
	Position   int            `gorm:"column:position;index"`
	BreedGroup string         `gorm:"column:breed_group;type:varchar(64);index"`
	TraitNames pq.StringArray `gorm:"column:trait_names;type:text[]"`
	Traits     []traitGroup   `gorm:"column:traits;serializer:json"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (breedRecord) TableName() string { return "breeds" }

type traitGroup struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Traits []trait `json:"traits"`
}

type trait struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}
