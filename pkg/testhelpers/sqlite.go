package testhelpers

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource/sqlite"
	"github.com/ekaya-inc/artifact-collector/pkg/database"
)

// NewSQLiteDB opens a fresh artifact store in a temp dir with the schema in
// place. It is closed when the test ends.
func NewSQLiteDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	dialect := sqlite.NewDialect(&sqlite.Config{Path: filepath.Join(t.TempDir(), "artifacts.db")})
	db, err := database.NewConnection(ctx, dialect, &database.Config{}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
