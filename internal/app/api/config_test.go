package api

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(env.Options{Environment: map[string]string{}})
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	require.Equal(t, 8, cfg.SearchPageSize)
	require.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	require.Equal(t, time.Minute, cfg.SessionSweepInterval)
	require.Equal(t, 10*time.Minute, cfg.RankingCacheTTL)
	require.Equal(t, 20.0, cfg.RateLimitRPS)
	require.Equal(t, 40, cfg.RateLimitBurst)
	require.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	require.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	require.False(t, cfg.TemporalDisabled)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 1.0, cfg.TraceSampleRatio)
	require.Len(t, cfg.ObservabilityOptions(), 2)
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := parseConfig(env.Options{Environment: map[string]string{
		"PORT":              "9090",
		"SEARCH_DEBOUNCE":   "50ms",
		"SEARCH_PAGE_SIZE":  "20",
		"REDIS_ADDR":        "localhost:6379",
		"REDIS_DB":          "2",
		"TEMPORAL_DISABLED": "true",
		"MATCH_POLICY_FILE": "policy.yaml",
	}})
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 50*time.Millisecond, cfg.SearchDebounce)
	require.Equal(t, 20, cfg.SearchPageSize)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, "policy.yaml", cfg.MatchPolicyFile)
}

func TestParseConfig_RejectsInvalidValues(t *testing.T) {
	for name, environ := range map[string]map[string]string{
		"zero page size":    {"SEARCH_PAGE_SIZE": "0"},
		"zero debounce":     {"SEARCH_DEBOUNCE": "0s"},
		"zero sweep":        {"SESSION_SWEEP_INTERVAL": "0s"},
		"negative rate":     {"RATE_LIMIT_RPS": "-1"},
		"unparseable value": {"SEARCH_PAGE_SIZE": "eight"},
		"unknown log level": {"LOG_LEVEL": "verbose"},
		"sample ratio":      {"TRACE_SAMPLE_RATIO": "1.5"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseConfig(env.Options{Environment: environ})
			require.Error(t, err)
		})
	}
}
