package repositories

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
	"github.com/ekaya-inc/artifact-collector/pkg/database"
	"github.com/ekaya-inc/artifact-collector/pkg/metrics"
	"github.com/ekaya-inc/artifact-collector/pkg/models"
)

// ArtifactRepository defines the interface for artifact table access.
type ArtifactRepository interface {
	// Upsert writes metadata, then media, then colors, each table in its own
	// transaction. Rows whose key already exists are replaced whole. The first
	// failing table aborts the call with an *apperrors.StoreError; tables
	// written before it stay committed.
	Upsert(ctx context.Context, metadata []models.ArtifactMetadata, media []models.ArtifactMedia, colors []models.ArtifactColor) error

	// Counts returns the row count of each artifact table.
	Counts(ctx context.Context) (models.TableCounts, error)
}

type artifactRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewArtifactRepository creates a repository over db.
func NewArtifactRepository(db *database.DB, logger *zap.Logger) ArtifactRepository {
	return &artifactRepository{
		db:     db,
		logger: logger.Named("artifact-repository"),
	}
}

var _ ArtifactRepository = (*artifactRepository)(nil)

func (r *artifactRepository) Upsert(ctx context.Context, metadata []models.ArtifactMetadata, media []models.ArtifactMedia, colors []models.ArtifactColor) error {
	tables := []struct {
		name    string
		columns []string
		keys    []string
		rows    [][]any
	}{
		{models.TableArtifactMetadata, models.MetadataColumns, []string{"id"}, rowValues(metadata)},
		{models.TableArtifactMedia, models.MediaColumns, []string{"object_id"}, rowValues(media)},
		{models.TableArtifactColors, models.ColorColumns, []string{"object_id", "hue"}, rowValues(colors)},
	}

	for _, t := range tables {
		err := r.writeTable(ctx, t.name, t.columns, t.keys, t.rows)
		metrics.RecordTableWrite(t.name, len(t.rows), err)
		if err != nil {
			r.logger.Error("Table write failed",
				zap.String("table", t.name),
				zap.Int("rows", len(t.rows)),
				zap.Error(err))
			return &apperrors.StoreError{Table: t.name, Err: err}
		}
		r.logger.Debug("Table written",
			zap.String("table", t.name),
			zap.Int("rows", len(t.rows)))
	}
	return nil
}

// writeTable replaces rows into table inside one transaction, chunked to fit
// the dialect's statement limits.
func (r *artifactRepository) writeTable(ctx context.Context, table string, columns, keys []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	size := datasource.RowsPerStatement(r.db.Dialect, len(columns))
	for _, chunk := range datasource.Chunk(rows, size) {
		query, args := r.db.Dialect.ReplaceOnConflict(table, columns, keys, chunk)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %d rows: %w", len(chunk), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *artifactRepository) Counts(ctx context.Context) (models.TableCounts, error) {
	var counts models.TableCounts
	targets := []struct {
		table string
		dest  *int64
	}{
		{models.TableArtifactMetadata, &counts.Metadata},
		{models.TableArtifactMedia, &counts.Media},
		{models.TableArtifactColors, &counts.Colors},
	}
	for _, t := range targets {
		if err := r.db.GetContext(ctx, t.dest, "SELECT COUNT(*) FROM "+t.table); err != nil {
			return models.TableCounts{}, fmt.Errorf("count %s: %w", t.table, err)
		}
	}
	return counts, nil
}

type valuer interface {
	Values() []any
}

func rowValues[T valuer](rows []T) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		out[i] = row.Values()
	}
	return out
}
