//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/breedstest"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/domain"
	"github.com/Apurer/breedmatch-api/internal/platform/migrations"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("breedmatch_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestRepository_ReplaceAllAndLoadAll(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	empty, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.ReplaceAll(ctx, breedstest.Sample()))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 4)
	assert.Equal(t, breedstest.Sample(), loaded)
}

func TestRepository_ReplaceAllRemovesMissingAndReorders(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, breedstest.Sample()))
	require.NoError(t, repo.ReplaceAll(ctx, []domain.Breed{breedstest.Mastiff(), breedstest.Golden()}))

	loaded, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Mastiff", loaded[0].Name)
	assert.Equal(t, "Golden Retriever", loaded[1].Name)

	require.NoError(t, repo.ReplaceAll(ctx, nil))
	loaded, err = repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRepository_FindByTrait(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	require.NoError(t, repo.ReplaceAll(ctx, breedstest.Sample()))

	withKids, err := repo.FindByTrait(ctx, "Kid-Friendly")
	require.NoError(t, err)
	require.Len(t, withKids, 3)

	none, err := repo.FindByTrait(ctx, "Barking")
	require.NoError(t, err)
	assert.Empty(t, none)
}
