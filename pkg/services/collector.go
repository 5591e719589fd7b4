package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
	"github.com/ekaya-inc/artifact-collector/pkg/metrics"
	"github.com/ekaya-inc/artifact-collector/pkg/models"
	"github.com/ekaya-inc/artifact-collector/pkg/museum"
	sqlcheck "github.com/ekaya-inc/artifact-collector/pkg/sql"
)

const (
	// DefaultPageSize is the largest page the collection API serves.
	DefaultPageSize = 100

	// DefaultFetchLimit caps a fetch when the caller passes no limit.
	DefaultFetchLimit = 2500
)

// CollectorService fetches and normalizes artifacts for one classification.
type CollectorService interface {
	// Collect pages through the collection API until limit records have been
	// gathered, the API runs out of records, or the reported page count is
	// exhausted. limit <= 0 uses the configured default. Any transport failure
	// aborts the whole fetch.
	Collect(ctx context.Context, classification string, limit int) (*models.Batch, error)
}

type collectorService struct {
	fetcher      museum.PageFetcher
	pageSize     int
	defaultLimit int
	logger       *zap.Logger
}

// NewCollectorService creates a collector over fetcher. Non-positive sizes
// fall back to DefaultPageSize and DefaultFetchLimit.
func NewCollectorService(fetcher museum.PageFetcher, pageSize, defaultLimit int, logger *zap.Logger) CollectorService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultFetchLimit
	}
	return &collectorService{
		fetcher:      fetcher,
		pageSize:     pageSize,
		defaultLimit: defaultLimit,
		logger:       logger.Named("collector"),
	}
}

var _ CollectorService = (*collectorService)(nil)

func (s *collectorService) Collect(ctx context.Context, classification string, limit int) (*models.Batch, error) {
	classification, err := ValidateClassification(classification)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	s.logger.Info("Collecting artifacts",
		zap.String("classification", classification),
		zap.Int("limit", limit))

	var raw []json.RawMessage
	pages := 0
	for page := 1; len(raw) < limit; page++ {
		result, err := s.fetcher.FetchPage(ctx, classification, page, s.pageSize)
		if err != nil {
			metrics.RecordCollection("error", 0)
			s.logger.Error("Fetch aborted",
				zap.String("classification", classification),
				zap.Int("page", page),
				zap.Error(err))
			return nil, fmt.Errorf("collect %q: %w", classification, err)
		}
		pages++
		if len(result.Records) == 0 {
			break
		}
		raw = append(raw, result.Records...)
		if result.Info.Pages > 0 && page+1 > result.Info.Pages {
			break
		}
	}

	if len(raw) > limit {
		raw = raw[:limit]
	}

	norm := NormalizeRecords(classification, raw)
	batch := &models.Batch{
		ID:             uuid.New(),
		Classification: classification,
		FetchedAt:      time.Now().UTC(),
		PagesFetched:   pages,
		Skipped:        norm.Skipped,
		Metadata:       norm.Metadata,
		Media:          norm.Media,
		Colors:         norm.Colors,
		Raw:            raw,
	}

	metrics.RecordCollection("success", len(batch.Metadata))
	s.logger.Info("Collected artifacts",
		zap.String("batch_id", batch.ID.String()),
		zap.String("classification", classification),
		zap.Int("pages", pages),
		zap.Int("records", len(raw)),
		zap.Int("metadata", len(batch.Metadata)),
		zap.Int("colors", len(batch.Colors)),
		zap.Int("skipped", batch.Skipped))

	return batch, nil
}

// ValidateClassification trims a classification label and rejects empty
// labels and labels libinjection flags as SQL injection.
func ValidateClassification(classification string) (string, error) {
	classification = strings.TrimSpace(classification)
	if classification == "" {
		return "", apperrors.NewValidationError("classification", "must not be empty")
	}
	if result := sqlcheck.CheckValueForInjection("classification", classification); result != nil {
		return "", apperrors.NewValidationError("classification",
			fmt.Sprintf("rejected suspicious input (fingerprint %s)", result.Fingerprint))
	}
	return classification, nil
}
