package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource/sqlite"
	"github.com/ekaya-inc/artifact-collector/pkg/config"
)

func TestOpen_SQLiteCreatesSchema(t *testing.T) {
	ctx := context.Background()
	cfg := &config.DatabaseConfig{Type: config.DatabaseSQLite, Path: filepath.Join(t.TempDir(), "artifacts.db")}

	db, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite", db.Dialect.Type())
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)

	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.EnsureSchema(ctx), "schema bootstrap must be idempotent")

	var tables []string
	require.NoError(t, db.SelectContext(ctx, &tables,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE 'artifact_%' ORDER BY name"))
	assert.Equal(t, []string{"artifact_colors", "artifact_media", "artifact_metadata"}, tables)
}

func TestOpen_UnregisteredType(t *testing.T) {
	cfg := &config.DatabaseConfig{Type: "oracle"}
	_, err := Open(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestConnectionMap(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Type:     config.DatabaseSQLServer,
		Host:     "sql",
		User:     "sa",
		Password: "pw",
		Database: "museum",
		SSLMode:  "disable",
	}
	m := ConnectionMap(cfg)
	assert.Equal(t, 1433, m["port"])
	assert.Equal(t, "sa", m["user"])
	assert.Equal(t, "pw", m["password"])
	assert.Equal(t, "museum", m["database"])
}
