package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
	"github.com/ekaya-inc/artifact-collector/pkg/models"
	"github.com/ekaya-inc/artifact-collector/pkg/testhelpers"
)

func sampleRows(n int) ([]models.ArtifactMetadata, []models.ArtifactMedia, []models.ArtifactColor) {
	var meta []models.ArtifactMetadata
	var media []models.ArtifactMedia
	var colors []models.ArtifactColor
	for i := 1; i <= n; i++ {
		id := int64(i)
		meta = append(meta, models.ArtifactMetadata{
			ID:             id,
			Title:          testhelpers.Ptr(fmt.Sprintf("Coin %d", i)),
			Department:     testhelpers.Ptr("Coins"),
			AccessionYear:  testhelpers.Ptr(int64(1950 + i%50)),
			Classification: "Coins",
		})
		media = append(media, models.ArtifactMedia{
			ObjectID:   id,
			ImageCount: testhelpers.Ptr(int64(1)),
			Rank:       testhelpers.Ptr(float64(i)),
		})
		colors = append(colors,
			models.ArtifactColor{ObjectID: id, Hue: "Grey", Percentage: testhelpers.Ptr(0.6)},
			models.ArtifactColor{ObjectID: id, Hue: "Brown", Percentage: testhelpers.Ptr(0.4)},
		)
	}
	return meta, media, colors
}

func TestArtifactRepository_UpsertAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewArtifactRepository(testhelpers.NewSQLiteDB(t), zap.NewNop())

	meta, media, colors := sampleRows(3)
	require.NoError(t, repo.Upsert(ctx, meta, media, colors))

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TableCounts{Metadata: 3, Media: 3, Colors: 6}, counts)
}

func TestArtifactRepository_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewArtifactRepository(testhelpers.NewSQLiteDB(t), zap.NewNop())

	meta, media, colors := sampleRows(5)
	require.NoError(t, repo.Upsert(ctx, meta, media, colors))
	first, err := repo.Counts(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, meta, media, colors))
	second, err := repo.Counts(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestArtifactRepository_UpsertReplacesWholeRow(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	repo := NewArtifactRepository(db, zap.NewNop())

	require.NoError(t, repo.Upsert(ctx, []models.ArtifactMetadata{{
		ID:             42,
		Title:          testhelpers.Ptr("Tetradrachm"),
		Period:         testhelpers.Ptr("Hellenistic period"),
		Classification: "Coins",
	}}, nil, nil))

	// Second write omits period and retags the classification.
	require.NoError(t, repo.Upsert(ctx, []models.ArtifactMetadata{{
		ID:             42,
		Title:          testhelpers.Ptr("Tetradrachm of Alexander"),
		Classification: "Medals",
	}}, nil, nil))

	var row struct {
		Title          *string `db:"title"`
		Period         *string `db:"period"`
		Classification string  `db:"classification"`
	}
	require.NoError(t, db.GetContext(ctx, &row, "SELECT title, period, classification FROM artifact_metadata WHERE id = 42"))
	require.NotNil(t, row.Title)
	assert.Equal(t, "Tetradrachm of Alexander", *row.Title)
	assert.Nil(t, row.Period)
	assert.Equal(t, "Medals", row.Classification)
}

func TestArtifactRepository_ColorKeyUniqueness(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	repo := NewArtifactRepository(db, zap.NewNop())

	require.NoError(t, repo.Upsert(ctx, nil, nil, []models.ArtifactColor{
		{ObjectID: 1, Hue: "Grey", Percentage: testhelpers.Ptr(0.1)},
		{ObjectID: 1, Hue: "Red", Percentage: testhelpers.Ptr(0.2)},
	}))
	require.NoError(t, repo.Upsert(ctx, nil, nil, []models.ArtifactColor{
		{ObjectID: 1, Hue: "Grey", Percentage: testhelpers.Ptr(0.9)},
	}))

	var n int
	require.NoError(t, db.GetContext(ctx, &n, "SELECT COUNT(*) FROM artifact_colors WHERE object_id = 1 AND hue = 'Grey'"))
	assert.Equal(t, 1, n)

	var pct float64
	require.NoError(t, db.GetContext(ctx, &pct, "SELECT percentage FROM artifact_colors WHERE object_id = 1 AND hue = 'Grey'"))
	assert.Equal(t, 0.9, pct)
}

func TestArtifactRepository_UpsertChunksLargeBatches(t *testing.T) {
	ctx := context.Background()
	repo := NewArtifactRepository(testhelpers.NewSQLiteDB(t), zap.NewNop())

	meta, media, colors := sampleRows(450)
	require.NoError(t, repo.Upsert(ctx, meta, media, colors))

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.TableCounts{Metadata: 450, Media: 450, Colors: 900}, counts)
}

func TestArtifactRepository_EmptyUpsertIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := NewArtifactRepository(testhelpers.NewSQLiteDB(t), zap.NewNop())

	require.NoError(t, repo.Upsert(ctx, nil, nil, nil))
	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts)
}

func TestArtifactRepository_StopsAtFirstFailingTable(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	repo := NewArtifactRepository(db, zap.NewNop())

	_, err := db.ExecContext(ctx, "DROP TABLE artifact_media")
	require.NoError(t, err)

	meta, media, colors := sampleRows(2)
	err = repo.Upsert(ctx, meta, media, colors)
	require.Error(t, err)

	var storeErr *apperrors.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, models.TableArtifactMedia, storeErr.Table)

	// metadata committed before the failure, colors never attempted
	var n int
	require.NoError(t, db.GetContext(ctx, &n, "SELECT COUNT(*) FROM artifact_metadata"))
	assert.Equal(t, 2, n)
	require.NoError(t, db.GetContext(ctx, &n, "SELECT COUNT(*) FROM artifact_colors"))
	assert.Equal(t, 0, n)
}

func TestArtifactRepository_CountsOnMissingTable(t *testing.T) {
	ctx := context.Background()
	db := testhelpers.NewSQLiteDB(t)
	repo := NewArtifactRepository(db, zap.NewNop())

	_, err := db.ExecContext(ctx, "DROP TABLE artifact_colors")
	require.NoError(t, err)

	_, err = repo.Counts(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count artifact_colors")
}
