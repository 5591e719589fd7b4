package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
	"github.com/ekaya-inc/artifact-collector/pkg/models"
	"github.com/ekaya-inc/artifact-collector/pkg/repositories"
)

// View names the panel a client should render.
type View string

const (
	ViewCollected View = "collected"
	ViewMigrate   View = "migrate"
	ViewQueries   View = "queries"
	ViewTables    View = "tables"
)

// ParseView validates a view name.
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewCollected, ViewMigrate, ViewQueries, ViewTables:
		return v, nil
	}
	return "", apperrors.NewValidationError("view", fmt.Sprintf("unknown view %q", s))
}

// CombinedTables accumulates every batch inserted during the session,
// deduplicated on each table's key with the first occurrence winning.
type CombinedTables struct {
	Metadata []models.ArtifactMetadata `json:"metadata" yaml:"metadata"`
	Media    []models.ArtifactMedia    `json:"media" yaml:"media"`
	Colors   []models.ArtifactColor    `json:"colors" yaml:"colors"`

	metaIDs  map[int64]bool
	mediaIDs map[int64]bool
	colorIDs map[models.ColorKey]bool
}

func (c *CombinedTables) merge(b *models.Batch) {
	if c.metaIDs == nil {
		c.metaIDs = make(map[int64]bool)
		c.mediaIDs = make(map[int64]bool)
		c.colorIDs = make(map[models.ColorKey]bool)
	}
	for _, m := range b.Metadata {
		if !c.metaIDs[m.ID] {
			c.metaIDs[m.ID] = true
			c.Metadata = append(c.Metadata, m)
		}
	}
	for _, m := range b.Media {
		if !c.mediaIDs[m.ObjectID] {
			c.mediaIDs[m.ObjectID] = true
			c.Media = append(c.Media, m)
		}
	}
	for _, col := range b.Colors {
		if !c.colorIDs[col.Key()] {
			c.colorIDs[col.Key()] = true
			c.Colors = append(c.Colors, col)
		}
	}
}

func (c *CombinedTables) clone() CombinedTables {
	return CombinedTables{
		Metadata: append([]models.ArtifactMetadata(nil), c.Metadata...),
		Media:    append([]models.ArtifactMedia(nil), c.Media...),
		Colors:   append([]models.ArtifactColor(nil), c.Colors...),
	}
}

// SessionSnapshot is a point-in-time copy of the session for rendering.
type SessionSnapshot struct {
	View      View           `json:"view"`
	Collected bool           `json:"collected"`
	Inserted  bool           `json:"inserted"`
	Batch     *models.Batch  `json:"batch,omitempty"`
	Committed []string       `json:"committed"`
	Combined  CombinedTables `json:"-"`
}

// InsertResult reports what one insert wrote.
type InsertResult struct {
	BatchID        string             `json:"batch_id"`
	Classification string             `json:"classification"`
	Written        models.TableCounts `json:"written"`
	Totals         models.TableCounts `json:"totals"`
	Message        string             `json:"message"`
}

// Session is the single-user workflow: collect a classification, preview it,
// insert it once, then query the accumulated data. Actions run one at a time.
type Session struct {
	mu sync.Mutex

	collector CollectorService
	repo      repositories.ArtifactRepository
	queries   QueryService
	tracker   *CommitTracker
	logger    *zap.Logger

	view      View
	collected bool
	inserted  bool
	batch     *models.Batch
	combined  CombinedTables
}

// NewSession wires a session over its collaborators. A nil tracker starts empty.
func NewSession(
	collector CollectorService,
	repo repositories.ArtifactRepository,
	queries QueryService,
	tracker *CommitTracker,
	logger *zap.Logger,
) *Session {
	if tracker == nil {
		tracker = NewCommitTracker()
	}
	return &Session{
		collector: collector,
		repo:      repo,
		queries:   queries,
		tracker:   tracker,
		logger:    logger.Named("session"),
		view:      ViewCollected,
	}
}

// Collect fetches classification and makes it the current batch. A
// classification already inserted this session is refused before any request.
func (s *Session) Collect(ctx context.Context, classification string, limit int) (*models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracker.HasCommitted(classification) {
		return nil, fmt.Errorf("classification %q: %w", classification, apperrors.ErrAlreadyCommitted)
	}

	batch, err := s.collector.Collect(ctx, classification, limit)
	if err != nil {
		return nil, err
	}

	s.batch = batch
	s.collected = true
	s.inserted = false
	s.view = ViewCollected
	return batch, nil
}

// Insert writes the current batch to the store and marks its classification
// committed.
func (s *Session) Insert(ctx context.Context) (*InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.collected || s.batch == nil {
		return nil, apperrors.ErrNotCollected
	}
	b := s.batch
	if s.tracker.HasCommitted(b.Classification) {
		return nil, fmt.Errorf("classification %q: %w", b.Classification, apperrors.ErrAlreadyCommitted)
	}

	if err := s.repo.Upsert(ctx, b.Metadata, b.Media, b.Colors); err != nil {
		return nil, fmt.Errorf("insert batch %s: %w", b.ID, err)
	}

	s.tracker.MarkCommitted(b.Classification)
	s.combined.merge(b)
	s.inserted = true
	s.view = ViewTables

	result := &InsertResult{
		BatchID:        b.ID.String(),
		Classification: b.Classification,
		Written: models.TableCounts{
			Metadata: int64(len(b.Metadata)),
			Media:    int64(len(b.Media)),
			Colors:   int64(len(b.Colors)),
		},
		Message: fmt.Sprintf("Inserted %s and %s for %q",
			countOf(len(b.Metadata), "artifact"), countOf(len(b.Colors), "color"), b.Classification),
	}

	totals, err := s.repo.Counts(ctx)
	if err != nil {
		s.logger.Warn("Failed to read table counts after insert", zap.Error(err))
	} else {
		result.Totals = totals
	}

	s.logger.Info("Batch inserted",
		zap.String("batch_id", result.BatchID),
		zap.String("classification", b.Classification),
		zap.Int64("metadata", result.Written.Metadata),
		zap.Int64("media", result.Written.Media),
		zap.Int64("colors", result.Written.Colors))

	return result, nil
}

// SelectView switches the active panel.
func (s *Session) SelectView(view View) error {
	if _, err := ParseView(string(view)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	return nil
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionSnapshot{
		View:      s.view,
		Collected: s.collected,
		Inserted:  s.inserted,
		Batch:     s.batch,
		Committed: s.tracker.Committed(),
		Combined:  s.combined.clone(),
	}
}

// Queries lists the canned query catalog.
func (s *Session) Queries() []models.CannedQuery {
	return s.queries.List()
}

// RunQuery runs a canned query once something has been inserted since the
// last collect.
func (s *Session) RunQuery(ctx context.Context, number int) (*models.QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inserted {
		return nil, apperrors.ErrNotInserted
	}
	s.view = ViewQueries
	return s.queries.Run(ctx, number)
}

// RunArtifactColors runs the parameterized artifact colors query under the
// same gate as RunQuery.
func (s *Session) RunArtifactColors(ctx context.Context, artifactID string) (*models.QueryResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.inserted {
		return nil, apperrors.ErrNotInserted
	}
	s.view = ViewQueries
	return s.queries.RunArtifactColors(ctx, artifactID)
}

// countOf formats n with noun pluralized when n != 1.
func countOf(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}
