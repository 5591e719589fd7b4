package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
	"github.com/ekaya-inc/artifact-collector/pkg/config"
	"github.com/ekaya-inc/artifact-collector/pkg/logging"
	"github.com/ekaya-inc/artifact-collector/pkg/retry"
)

// DB wraps a sqlx handle together with the dialect it was opened for.
type DB struct {
	*sqlx.DB
	Dialect datasource.Dialect
}

// Config holds pool tuning. Zero values take defaults.
type Config struct {
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	Retry           *retry.Config // nil uses retry.DefaultConfig()
}

// ConnectionMap converts the configured database section into the generic
// map consumed by dialect factories.
func ConnectionMap(cfg *config.DatabaseConfig) map[string]any {
	return map[string]any{
		"path":     cfg.Path,
		"host":     cfg.Host,
		"port":     cfg.EffectivePort(),
		"user":     cfg.User,
		"password": cfg.Password,
		"database": cfg.Database,
		"ssl_mode": cfg.SSLMode,
	}
}

// Open resolves the dialect for cfg.Type and connects to it.
func Open(ctx context.Context, cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dialect, err := datasource.NewDialect(cfg.Type, ConnectionMap(cfg))
	if err != nil {
		return nil, err
	}
	logger.Info("Opening artifact store",
		zap.String("type", dialect.Type()),
		zap.String("target", cfg.Redacted()))
	logger.Debug("Artifact store DSN", zap.String("dsn", logging.SanitizeConnectionString(dialect.DSN())))
	return NewConnection(ctx, dialect, &Config{}, logger)
}

// NewConnection opens a pool for dialect and pings it, retrying transient
// connectivity failures.
func NewConnection(ctx context.Context, dialect datasource.Dialect, cfg *Config, logger *zap.Logger) (*DB, error) {
	db, err := sqlx.Open(dialect.DriverName(), dialect.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %s", dialect.Type(), logging.SanitizeError(err))
	}

	if n := dialect.MaxOpenConns(); n > 0 {
		db.SetMaxOpenConns(n)
		db.SetMaxIdleConns(n)
	}

	lifetime := cfg.MaxConnLifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}
	db.SetConnMaxLifetime(lifetime)

	idle := cfg.MaxConnIdleTime
	if idle == 0 {
		idle = 30 * time.Minute
	}
	db.SetConnMaxIdleTime(idle)

	err = retry.DoIfRetryable(ctx, cfg.Retry, func() error {
		pingErr := db.PingContext(ctx)
		if pingErr != nil {
			logger.Warn("Database ping failed",
				zap.String("type", dialect.Type()),
				zap.String("error", logging.SanitizeError(pingErr)))
		}
		return pingErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %s", logging.SanitizeError(err))
	}

	return &DB{DB: db, Dialect: dialect}, nil
}

// EnsureSchema creates the artifact tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range db.Dialect.SchemaStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
