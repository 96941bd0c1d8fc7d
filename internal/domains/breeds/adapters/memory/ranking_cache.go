package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
	"github.com/Apurer/breedmatch-api/internal/domains/breeds/ports"
)

var _ ports.RankingCache = (*RankingCache)(nil)

// RankingCache keeps rankings in process memory with per-entry expiry.
type RankingCache struct {
	mu      sync.Mutex
	entries map[string]rankingEntry
	now     func() time.Time
}

type rankingEntry struct {
	ranking   []types.RankedBreed
	expiresAt time.Time
}

// NewRankingCache constructs an empty cache.
func NewRankingCache() *RankingCache {
	return &RankingCache{entries: map[string]rankingEntry{}, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (c *RankingCache) WithClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// Get returns a copy of a live entry. Expired entries are dropped on read.
func (c *RankingCache) Get(_ context.Context, key string) ([]types.RankedBreed, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]types.RankedBreed(nil), entry.ranking...), true, nil
}

// Set stores a copy of ranking. A non-positive ttl never expires.
func (c *RankingCache) Set(_ context.Context, key string, ranking []types.RankedBreed, ttl time.Duration) error {
	entry := rankingEntry{ranking: append([]types.RankedBreed(nil), ranking...)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return nil
}
