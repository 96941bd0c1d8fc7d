// Package postgres opens the GORM connection shared by the catalog repository,
// the worker and breedctl.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Apurer/breedmatch-api/internal/platform/migrations"
)

// ErrEmptyDSN is returned by Connect when no DSN is configured.
var ErrEmptyDSN = errors.New("postgres DSN is empty")

const (
	defaultPingTimeout   = 5 * time.Second
	defaultMaxOpenConns  = 10
	defaultMaxIdleTime   = 5 * time.Minute
	defaultSlowThreshold = 200 * time.Millisecond
)

type options struct {
	logger       *slog.Logger
	migrate      bool
	maxOpenConns int
	pingTimeout  time.Duration
}

// Option tunes Connect.
type Option func(*options)

// WithLogger routes GORM warnings and slow queries through logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMigrations applies the schema once connected.
func WithMigrations() Option {
	return func(o *options) { o.migrate = true }
}

// WithMaxOpenConns caps the pool size.
func WithMaxOpenConns(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxOpenConns = n
		}
	}
}

// Connect opens a PostgreSQL connection via GORM and verifies connectivity.
func Connect(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, ErrEmptyDSN
	}
	o := options{maxOpenConns: defaultMaxOpenConns, pingTimeout: defaultPingTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	cfg := &gorm.Config{}
	if o.logger != nil {
		cfg.Logger = gormlogger.New(
			slog.NewLogLogger(o.logger.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             defaultSlowThreshold,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		)
	}
	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.maxOpenConns)
	sqlDB.SetMaxIdleConns(o.maxOpenConns / 2)
	sqlDB.SetConnMaxIdleTime(defaultMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, o.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if o.migrate {
		if err := migrations.Run(db.WithContext(ctx)); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
	}
	return db, nil
}

// Close releases the pool behind db. A nil db is ignored.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// ConnectOrFallback dials PostgreSQL with migrations applied and returns the DB
// plus a cleanup function. When dsn is empty or the connection fails it logs and
// returns nil with a no-op cleanup, and callers use the in-memory catalog.
func ConnectOrFallback(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := Connect(ctx, dsn, WithLogger(logger), WithMigrations())
	switch {
	case errors.Is(err, ErrEmptyDSN):
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory catalog")
		return nil, func() {}
	case err != nil:
		logger.Warn("postgres unavailable, falling back to in-memory catalog", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("postgres connection established")
	return db, func() { Close(db) }
}
