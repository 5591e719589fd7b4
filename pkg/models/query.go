package models

// CannedQuery is one entry of the fixed analytical query catalog.
type CannedQuery struct {
	Number   int    `json:"number"`
	Question string `json:"question"`
	SQL      string `json:"sql"`

	// SQLServer replaces SQL on dialects that spell LIMIT as TOP. Empty means
	// SQL is portable.
	SQLServer string `json:"-"`

	// Parameterized queries take one bound artifact id.
	Parameterized bool `json:"parameterized"`
}

// QueryColumn describes one column of a query result.
type QueryColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// QueryResult holds the rows returned by a canned query.
type QueryResult struct {
	Number    int              `json:"number"`
	Question  string           `json:"question"`
	Columns   []QueryColumn    `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	RowCount  int              `json:"row_count"`
	Truncated bool             `json:"truncated,omitempty"`
}
