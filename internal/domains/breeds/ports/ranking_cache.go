package ports

import (
	"context"
	"time"

	"github.com/Apurer/breedmatch-api/internal/domains/breeds/application/types"
)

// RankingCache memoizes full rankings keyed by catalog version and preference
// fingerprint. A miss is reported with ok=false and a nil error.
type RankingCache interface {
	Get(ctx context.Context, key string) (ranking []types.RankedBreed, ok bool, err error)
	Set(ctx context.Context, key string, ranking []types.RankedBreed, ttl time.Duration) error
}
