package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolConfig holds connection pool configuration.
type PoolConfig struct {
	// MaxOpenConns is the maximum number of open connections.
	// Default: 1, since SQLite serializes writers.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 1
	MaxIdleConns int

	// ConnMaxLifetime is the maximum amount of time a connection may be reused.
	// Default: 0 (no limit). An in-memory database lives only as long as its connection.
	ConnMaxLifetime time.Duration
}

// DefaultPoolConfig returns the pool settings for a local SQLite file.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
}

// PoolOption configures connection pool settings.
type PoolOption interface {
	applyPool(*PoolConfig)
}

type poolOptionFunc func(*PoolConfig)

func (f poolOptionFunc) applyPool(c *PoolConfig) { f(c) }

// MaxOpenConns sets the maximum number of open connections.
func MaxOpenConns(n int) PoolOption {
	return poolOptionFunc(func(c *PoolConfig) {
		c.MaxOpenConns = n
	})
}

// MaxIdleConns sets the maximum number of idle connections.
func MaxIdleConns(n int) PoolOption {
	return poolOptionFunc(func(c *PoolConfig) {
		c.MaxIdleConns = n
	})
}

// ConnMaxLifetime sets the maximum connection lifetime.
func ConnMaxLifetime(d time.Duration) PoolOption {
	return poolOptionFunc(func(c *PoolConfig) {
		c.ConnMaxLifetime = d
	})
}

// ConfigurePool applies pool configuration to a GORM database connection.
func ConfigurePool(db *gorm.DB, opts ...PoolOption) error {
	config := DefaultPoolConfig()
	for _, opt := range opts {
		opt.applyPool(&config)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying *sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	return nil
}

// Open opens (or creates) the SQLite database at path, configures its pool
// and migrates the schema. Use ":memory:" for a throwaway database.
func Open(path string, log *slog.Logger, opts ...PoolOption) (*GormStorage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := ConfigurePool(db, opts...); err != nil {
		return nil, err
	}
	s := NewGormStorage(db)
	if err := s.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// newGormLogger keeps GORM quiet unless a slog logger is given, in which case
// only errors are reported through it.
func newGormLogger(log *slog.Logger) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(slogWriter{log}, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  logger.Error,
		IgnoreRecordNotFoundError: true,
	})
}

type slogWriter struct {
	log *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.log.Error(fmt.Sprintf(format, args...), "component", "gorm")
}
