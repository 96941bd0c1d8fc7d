package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

var _ ports.CatalogRepository = (*Repository)(nil)

// Repository persists the breed catalog in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed catalog. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&breedRecord{})
	}
	return repo
}

// breedRecord stores one breed. Trait groups are kept as a JSON document; trait
// names are denormalized into an array column for ad-hoc lookups.
type breedRecord struct {
	Name       string              `gorm:"primaryKey;column:name;size:128"`
	Position   int                 `gorm:"column:position;index"`
	BreedGroup string              `gorm:"column:breed_group;type:varchar(64);index"`
	TraitNames pq.StringArray      `gorm:"column:trait_names;type:text[]"`
	Traits     []domain.TraitGroup `gorm:"column:traits;serializer:json"`
	CreatedAt  time.Time           `gorm:"column:created_at"`
	UpdatedAt  time.Time           `gorm:"column:updated_at"`
}

func (breedRecord) TableName() string { return "breeds" }

// LoadAll returns the catalog ordered by import position.
func (r *Repository) LoadAll(ctx context.Context) ([]domain.Breed, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []breedRecord
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	breeds := make([]domain.Breed, 0, len(records))
	for i := range records {
		breeds = append(breeds, records[i].toDomain())
	}
	return breeds, nil
}

// ReplaceAll upserts every breed and removes the ones missing from the new catalog
// in a single transaction.
func (r *Repository) ReplaceAll(ctx context.Context, breeds []domain.Breed) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(breeds) == 0 {
			return tx.Where("1 = 1").Delete(&breedRecord{}).Error
		}
		records := make([]breedRecord, 0, len(breeds))
		names := make([]string, 0, len(breeds))
		for i, b := range breeds {
			records = append(records, toRecord(i, b))
			names = append(names, b.Name)
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"position", "breed_group", "trait_names", "traits", "updated_at"}),
		}).CreateInBatches(&records, 100).Error; err != nil {
			return err
		}
		return tx.Where("name NOT IN ?", names).Delete(&breedRecord{}).Error
	})
}

// FindByTrait lists breeds carrying a trait, in catalog order.
func (r *Repository) FindByTrait(ctx context.Context, trait string) ([]domain.Breed, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []breedRecord
	if err := r.db.WithContext(ctx).
		Where("? = ANY(trait_names)", trait).
		Order("position ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	breeds := make([]domain.Breed, 0, len(records))
	for i := range records {
		breeds = append(breeds, records[i].toDomain())
	}
	return breeds, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toRecord(position int, b domain.Breed) breedRecord {
	clone := b.Clone()
	return breedRecord{
		Name:       clone.Name,
		Position:   position,
		BreedGroup: clone.BreedGroup,
		TraitNames: pq.StringArray(clone.TraitNames()),
		Traits:     clone.Traits,
	}
}

func (r breedRecord) toDomain() domain.Breed {
	return domain.Breed{
		Name:       r.Name,
		BreedGroup: r.BreedGroup,
		Traits:     r.Traits,
	}
}
