package datasource

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/logging"
)

// SQLExecutor implements QueryExecutor on a sqlx handle.
type SQLExecutor struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSQLExecutor wraps db. The handle's driver name decides how "?"
// placeholders are rebound.
func NewSQLExecutor(db *sqlx.DB, logger *zap.Logger) *SQLExecutor {
	return &SQLExecutor{
		db:     db,
		logger: logger.Named("query-executor"),
	}
}

var _ QueryExecutor = (*SQLExecutor)(nil)

// Query runs a read statement and returns at most limit rows. Callers are
// responsible for having validated sqlQuery as read-only.
func (e *SQLExecutor) Query(ctx context.Context, sqlQuery string, params []any, limit int) (*QueryExecutionResult, error) {
	if limit <= 0 || limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}

	bound := e.db.Rebind(sqlQuery)
	e.logger.Debug("Executing query",
		zap.String("sql", logging.SanitizeQuery(bound)),
		zap.Int("params", len(params)))

	rows, err := e.db.QueryxContext(ctx, bound, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}
	columns := make([]ColumnInfo, len(colTypes))
	for i, ct := range colTypes {
		columns[i] = ColumnInfo{Name: ct.Name(), Type: ct.DatabaseTypeName()}
	}

	result := &QueryExecutionResult{
		Columns: columns,
		Rows:    make([]map[string]any, 0),
	}
	for rows.Next() {
		if len(result.Rows) == limit {
			result.Truncated = true
			break
		}
		row := make(map[string]any, len(columns))
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for k, v := range row {
			row[k] = normalizeValue(v)
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	result.RowCount = len(result.Rows)
	return result, nil
}

// normalizeValue turns driver byte slices (TEXT on some drivers, NUMERIC on
// others) into strings so results serialize as readable JSON.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
