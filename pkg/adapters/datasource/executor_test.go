package datasource_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
	_ "github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource/sqlite"
)

func openSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	d, err := datasource.NewDialect("sqlite", map[string]any{"path": filepath.Join(t.TempDir(), "exec.db")})
	require.NoError(t, err)

	db, err := sqlx.Open(d.DriverName(), d.DSN())
	require.NoError(t, err)
	db.SetMaxOpenConns(d.MaxOpenConns())
	t.Cleanup(func() { db.Close() })

	for _, stmt := range d.SchemaStatements() {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func TestSQLExecutor_Query(t *testing.T) {
	db := openSQLite(t)
	_, err := db.Exec(`INSERT INTO artifact_colors (object_id, hue, percentage) VALUES (1, 'Grey', 0.5), (1, 'Red', 0.25), (2, 'Grey', 0.1)`)
	require.NoError(t, err)

	exec := datasource.NewSQLExecutor(db, zap.NewNop())
	result, err := exec.Query(context.Background(),
		"SELECT hue, percentage FROM artifact_colors WHERE object_id = ? ORDER BY hue", []any{int64(1)}, 0)
	require.NoError(t, err)

	require.Len(t, result.Columns, 2)
	assert.Equal(t, "hue", result.Columns[0].Name)
	assert.Equal(t, "percentage", result.Columns[1].Name)
	assert.Equal(t, 2, result.RowCount)
	assert.False(t, result.Truncated)
	assert.Equal(t, "Grey", result.Rows[0]["hue"])
	assert.Equal(t, 0.5, result.Rows[0]["percentage"])
}

func TestSQLExecutor_QueryTruncatesAtLimit(t *testing.T) {
	db := openSQLite(t)
	for i := 1; i <= 5; i++ {
		_, err := db.Exec(`INSERT INTO artifact_media (object_id) VALUES (?)`, i)
		require.NoError(t, err)
	}

	exec := datasource.NewSQLExecutor(db, zap.NewNop())
	result, err := exec.Query(context.Background(), "SELECT object_id FROM artifact_media ORDER BY object_id", nil, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, result.RowCount)
	assert.True(t, result.Truncated)

	result, err = exec.Query(context.Background(), "SELECT object_id FROM artifact_media", nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, result.RowCount)
	assert.False(t, result.Truncated)
}

func TestSQLExecutor_QueryEmptyResult(t *testing.T) {
	db := openSQLite(t)
	exec := datasource.NewSQLExecutor(db, zap.NewNop())

	result, err := exec.Query(context.Background(), "SELECT hue FROM artifact_colors", nil, 10)
	require.NoError(t, err)
	assert.NotNil(t, result.Rows)
	assert.Zero(t, result.RowCount)
}

func TestSQLExecutor_QueryError(t *testing.T) {
	db := openSQLite(t)
	exec := datasource.NewSQLExecutor(db, zap.NewNop())

	_, err := exec.Query(context.Background(), "SELECT nope FROM artifact_colors", nil, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute query")
}
