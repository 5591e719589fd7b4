package datasource

import (
	"context"

	"github.com/huandu/go-sqlbuilder"
)

// Dialect captures everything that differs between the supported stores:
// driver, connection string, DDL, placeholder style and conflict policy.
type Dialect interface {
	// Type is the registry key ("sqlite", "postgres", "sqlserver").
	Type() string

	// DriverName is the database/sql driver the dialect opens.
	DriverName() string

	// DSN returns the connection string for DriverName.
	DSN() string

	// Flavor is the go-sqlbuilder flavor used for placeholders.
	Flavor() sqlbuilder.Flavor

	// MaxOpenConns bounds the pool; 0 means unlimited.
	MaxOpenConns() int

	// MaxParams is the largest number of bind parameters one statement may carry.
	MaxParams() int

	// SchemaStatements returns idempotent DDL creating the artifact tables.
	SchemaStatements() []string

	// ReplaceOnConflict builds one statement inserting rows into table,
	// replacing every non-key column of rows whose keys already exist.
	ReplaceOnConflict(table string, columns, keys []string, rows [][]any) (string, []any)
}

// MaxQueryLimit is the hard cap on rows returned by Query.
const MaxQueryLimit = 1000

// QueryExecutor runs read-only statements against the store.
type QueryExecutor interface {
	// Query runs sqlQuery with positional "?" params rebound to the dialect's
	// placeholder style. At most limit rows are returned; limit <= 0 or
	// limit > MaxQueryLimit uses MaxQueryLimit.
	Query(ctx context.Context, sqlQuery string, params []any, limit int) (*QueryExecutionResult, error)
}

// ColumnInfo describes a result column.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// QueryExecutionResult contains rows returned by a query.
type QueryExecutionResult struct {
	Columns   []ColumnInfo     `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	RowCount  int              `json:"row_count"`
	Truncated bool             `json:"truncated"` // more rows existed beyond the limit
}
