package sqlite

import (
	"net/url"

	"github.com/huandu/go-sqlbuilder"
	_ "modernc.org/sqlite" // cgo-free driver registered as "sqlite"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
)

// maxVariables matches SQLITE_MAX_VARIABLE_NUMBER in the bundled library.
const maxVariables = 32766

// Dialect is the embedded default store.
type Dialect struct {
	cfg *Config
}

// NewDialect creates a SQLite dialect for cfg.
func NewDialect(cfg *Config) *Dialect {
	return &Dialect{cfg: cfg}
}

var _ datasource.Dialect = (*Dialect)(nil)

func (d *Dialect) Type() string              { return "sqlite" }
func (d *Dialect) DriverName() string        { return "sqlite" }
func (d *Dialect) Flavor() sqlbuilder.Flavor { return sqlbuilder.SQLite }
func (d *Dialect) MaxParams() int            { return maxVariables }

// MaxOpenConns pins the pool to one connection: SQLite allows a single writer.
func (d *Dialect) MaxOpenConns() int { return 1 }

// DSN returns a file: URI with busy timeout, WAL and NORMAL sync pragmas.
func (d *Dialect) DSN() string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return "file:" + d.cfg.Path + "?" + q.Encode()
}

// SchemaStatements creates the three artifact tables.
func (d *Dialect) SchemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS artifact_metadata (
			id INTEGER PRIMARY KEY,
			title TEXT,
			culture TEXT,
			dated TEXT,
			period TEXT,
			division TEXT,
			medium TEXT,
			dimensions TEXT,
			weight TEXT,
			department TEXT,
			accessionyear INTEGER,
			classification TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS artifact_media (
			object_id INTEGER PRIMARY KEY,
			imagecount INTEGER,
			mediacount INTEGER,
			colorcount INTEGER,
			rank REAL,
			datedbegin INTEGER,
			datedend INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS artifact_colors (
			object_id INTEGER,
			hue TEXT,
			percentage REAL,
			PRIMARY KEY (object_id, hue)
		)`,
	}
}

// ReplaceOnConflict uses REPLACE INTO, which deletes the conflicting row and
// inserts the new one. Keys are implied by the table's primary key.
func (d *Dialect) ReplaceOnConflict(table string, columns, _ []string, rows [][]any) (string, []any) {
	ib := sqlbuilder.SQLite.NewInsertBuilder()
	ib.ReplaceInto(table)
	ib.Cols(columns...)
	for _, row := range rows {
		ib.Values(row...)
	}
	return ib.Build()
}
