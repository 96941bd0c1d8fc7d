// Package redis stores breed rankings in Redis so replicas share them.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

var _ ports.RankingCache = (*RankingCache)(nil)

const (
	defaultPrefix  = "breedmatch:"
	defaultTimeout = 500 * time.Millisecond
)

type kvClient interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// RankingCache keeps JSON-encoded rankings under a key prefix.
type RankingCache struct {
	client  kvClient
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures the cache.
type Option func(*RankingCache)

// WithPrefix namespaces keys.
func WithPrefix(prefix string) Option {
	return func(c *RankingCache) {
		c.prefix = prefix
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *RankingCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewRankingCache wraps a connected client. It returns nil for a nil client.
func NewRankingCache(client *goredis.Client, opts ...Option) *RankingCache {
	if client == nil {
		return nil
	}
	return newRankingCache(client, opts...)
}

func newRankingCache(client kvClient, opts ...Option) *RankingCache {
	c := &RankingCache{
		client:  client,
		prefix:  defaultPrefix,
		timeout: defaultTimeout,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get loads a ranking. Missing keys and undecodable values are misses.
func (c *RankingCache) Get(ctx context.Context, key string) ([]types.RankedBreed, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		c.logger.Warn("ranking cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false, err
	}
	var ranking []types.RankedBreed
	if err := json.Unmarshal(raw, &ranking); err != nil {
		c.logger.Warn("ranking cache entry undecodable", slog.String("key", key), slog.String("error", err.Error()))
		return nil, false, nil
	}
	return ranking, true, nil
}

// Set stores a ranking with expiry. A non-positive ttl keeps the key forever.
func (c *RankingCache) Set(ctx context.Context, key string, ranking []types.RankedBreed, ttl time.Duration) error {
	payload, err := json.Marshal(ranking)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.client.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		c.logger.Warn("ranking cache write failed", slog.String("key", key), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// Connect dials Redis and pings it. The caller closes the returned client.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
