package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
	"github.com/ekaya-inc/artifact-collector/pkg/metrics"
	"github.com/ekaya-inc/artifact-collector/pkg/models"
	sqlcheck "github.com/ekaya-inc/artifact-collector/pkg/sql"
)

// QueryService lists and runs the canned query catalog.
type QueryService interface {
	List() []models.CannedQuery

	// Run executes an unparameterized catalog query.
	Run(ctx context.Context, number int) (*models.QueryResult, error)

	// RunArtifactColors executes the artifact colors query for artifactID,
	// which must be a non-negative integer.
	RunArtifactColors(ctx context.Context, artifactID string) (*models.QueryResult, error)
}

type queryService struct {
	executor    datasource.QueryExecutor
	dialectType string
	logger      *zap.Logger
}

// NewQueryService creates a query service. dialectType selects per-dialect
// statement overrides.
func NewQueryService(executor datasource.QueryExecutor, dialectType string, logger *zap.Logger) QueryService {
	return &queryService{
		executor:    executor,
		dialectType: dialectType,
		logger:      logger.Named("query-service"),
	}
}

var _ QueryService = (*queryService)(nil)

func (s *queryService) List() []models.CannedQuery {
	return QueryCatalog()
}

func (s *queryService) Run(ctx context.Context, number int) (*models.QueryResult, error) {
	q, ok := lookupQuery(number)
	if !ok {
		return nil, apperrors.NewValidationError("query", fmt.Sprintf("unknown query number %d", number))
	}
	if q.Parameterized {
		return nil, apperrors.NewValidationError("artifact_id", fmt.Sprintf("query %d requires an artifact id", number))
	}
	return s.execute(ctx, q, nil)
}

func (s *queryService) RunArtifactColors(ctx context.Context, artifactID string) (*models.QueryResult, error) {
	id, err := ParseArtifactID(artifactID)
	if err != nil {
		return nil, err
	}
	q, _ := lookupQuery(ArtifactColorsQuery)
	return s.execute(ctx, q, []any{id})
}

func (s *queryService) execute(ctx context.Context, q models.CannedQuery, params []any) (*models.QueryResult, error) {
	validation := sqlcheck.ValidateAndNormalize(statementFor(q, s.dialectType))
	if validation.Error != nil {
		return nil, &apperrors.QueryError{Query: q.Question, Err: validation.Error}
	}
	if err := sqlcheck.EnsureReadOnly(validation.NormalizedSQL); err != nil {
		return nil, &apperrors.QueryError{Query: q.Question, Err: err}
	}

	start := time.Now()
	result, err := s.executor.Query(ctx, validation.NormalizedSQL, params, datasource.MaxQueryLimit)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		metrics.RecordQuery(q.Number, "error", elapsed)
		s.logger.Error("Canned query failed",
			zap.Int("query", q.Number),
			zap.Error(err))
		return nil, &apperrors.QueryError{Query: q.Question, Err: err}
	}
	metrics.RecordQuery(q.Number, "success", elapsed)

	s.logger.Debug("Canned query executed",
		zap.Int("query", q.Number),
		zap.Int("rows", result.RowCount),
		zap.Bool("truncated", result.Truncated))

	columns := make([]models.QueryColumn, len(result.Columns))
	for i, c := range result.Columns {
		columns[i] = models.QueryColumn{Name: c.Name, Type: c.Type}
	}
	return &models.QueryResult{
		Number:    q.Number,
		Question:  q.Question,
		Columns:   columns,
		Rows:      result.Rows,
		RowCount:  result.RowCount,
		Truncated: result.Truncated,
	}, nil
}

// ParseArtifactID validates an artifact id typed by a user: digits only,
// optionally surrounded by whitespace.
func ParseArtifactID(artifactID string) (int64, error) {
	trimmed := strings.TrimSpace(artifactID)
	if trimmed == "" {
		return 0, apperrors.NewValidationError("artifact_id", "must not be empty")
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, apperrors.NewValidationError("artifact_id", "must be a non-negative integer")
		}
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("artifact_id", "out of range")
	}
	return id, nil
}
