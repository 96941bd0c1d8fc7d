package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"go.temporal.io/sdk/client"

	platformobservability "github.com/Apurer/breedmatch-api/internal/platform/observability"
)

// Config carries environment-driven settings for the API and worker processes.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	TemporalAddress   string `env:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `env:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool   `env:"TEMPORAL_DISABLED" envDefault:"false"`

	MatchPolicyFile string `env:"MATCH_POLICY_FILE"`

	SearchDebounce       time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"300ms"`
	SearchPageSize       int           `env:"SEARCH_PAGE_SIZE" envDefault:"8"`
	SessionIdleTTL       time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	RankingCacheTTL      time.Duration `env:"RANKING_CACHE_TTL" envDefault:"10m"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel         string  `env:"LOG_LEVEL" envDefault:"info"`
	TraceSampleRatio float64 `env:"TRACE_SAMPLE_RATIO" envDefault:"1"`
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	return parseConfig(env.Options{})
}

func parseConfig(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.TemporalAddress == "" {
		cfg.TemporalAddress = client.DefaultHostPort
	}
	if cfg.TemporalNamespace == "" {
		cfg.TemporalNamespace = client.DefaultNamespace
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ObservabilityOptions translates the logging and tracing settings for Init.
func (c Config) ObservabilityOptions() []platformobservability.Option {
	level, _ := platformobservability.ParseLevel(c.LogLevel)
	return []platformobservability.Option{
		platformobservability.WithLogLevel(level),
		platformobservability.WithTraceSampleRatio(c.TraceSampleRatio),
	}
}

// Validate rejects settings the search pipeline and sweeper cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.SearchPageSize <= 0 {
		errs = append(errs, errors.New("SEARCH_PAGE_SIZE must be positive"))
	}
	if c.SearchDebounce <= 0 {
		errs = append(errs, errors.New("SEARCH_DEBOUNCE must be positive"))
	}
	if c.SessionSweepInterval <= 0 {
		errs = append(errs, errors.New("SESSION_SWEEP_INTERVAL must be positive"))
	}
	if c.SessionIdleTTL <= 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TTL must be positive"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative"))
	}
	if _, err := platformobservability.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1 {
		errs = append(errs, errors.New("TRACE_SAMPLE_RATIO must be within [0, 1]"))
	}
	return errors.Join(errs...)
}
