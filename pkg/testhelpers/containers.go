//go:build integration && (postgres || all_adapters)

package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource/postgres"
	"github.com/ekaya-inc/artifact-collector/pkg/database"
)

// PostgresTestImage is the stock image used for store integration tests.
const PostgresTestImage = "postgres:16-alpine"

// PostgresDB holds a shared PostgreSQL container and an artifact store opened on it.
type PostgresDB struct {
	Container testcontainers.Container
	DB        *database.DB
	ConnStr   string
}

var (
	sharedPostgresDB     *PostgresDB
	sharedPostgresDBOnce sync.Once
	sharedPostgresDBErr  error
)

// GetPostgresDB returns a shared PostgreSQL store for integration tests.
// The container is created once and reused across all tests in the run; the
// artifact tables exist and are emptied before each call returns.
func GetPostgresDB(t *testing.T) *PostgresDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	sharedPostgresDBOnce.Do(func() {
		sharedPostgresDB, sharedPostgresDBErr = setupPostgresDB()
	})

	if sharedPostgresDBErr != nil {
		t.Fatalf("Failed to setup test database: %v", sharedPostgresDBErr)
	}

	ctx := context.Background()
	if _, err := sharedPostgresDB.DB.ExecContext(ctx,
		"TRUNCATE artifact_metadata, artifact_media, artifact_colors"); err != nil {
		t.Fatalf("Failed to truncate artifact tables: %v", err)
	}

	return sharedPostgresDB
}

func setupPostgresDB() (*PostgresDB, error) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        PostgresTestImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "artifacts_test",
			"POSTGRES_USER":     "collector",
			"POSTGRES_PASSWORD": "test_password",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start test container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	cfg := &postgres.Config{
		Host:     host,
		Port:     port.Int(),
		User:     "collector",
		Password: "test_password",
		Database: "artifacts_test",
		SSLMode:  "disable",
	}

	db, err := database.NewConnection(ctx, postgres.NewDialect(cfg), &database.Config{}, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresDB{
		Container: container,
		DB:        db,
		ConnStr:   cfg.ConnectionString(),
	}, nil
}
