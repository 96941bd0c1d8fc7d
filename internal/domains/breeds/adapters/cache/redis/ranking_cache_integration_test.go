//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
)

func setupRedisContainer(t *testing.T) (string, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, port.Port()), func() { _ = container.Terminate(ctx) }
}

func TestRankingCache_AgainstRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	addr, cleanup := setupRedisContainer(t)
	defer cleanup()

	ctx := context.Background()
	client, err := Connect(ctx, addr, "", 0)
	require.NoError(t, err)
	defer client.Close()

	cache := NewRankingCache(client)
	ranking := []types.RankedBreed{{Name: "Border Collie", Percentage: 88}}
	require.NoError(t, cache.Set(ctx, "ranking:v1", ranking, time.Second))

	got, ok, err := cache.Get(ctx, "ranking:v1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, ranking, got)

	ttl, err := client.TTL(ctx, defaultPrefix+"ranking:v1").Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}
