//go:build postgres || all_adapters

package postgres

import (
	"strings"

	"github.com/huandu/go-sqlbuilder"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
)

// maxBindParams is the wire protocol's 16-bit parameter count limit.
const maxBindParams = 65535

// Dialect stores artifacts in PostgreSQL through pgx's database/sql driver.
type Dialect struct {
	cfg *Config
}

// NewDialect creates a PostgreSQL dialect for cfg.
func NewDialect(cfg *Config) *Dialect {
	return &Dialect{cfg: cfg}
}

var _ datasource.Dialect = (*Dialect)(nil)

func (d *Dialect) Type() string              { return "postgres" }
func (d *Dialect) DriverName() string        { return "pgx" }
func (d *Dialect) DSN() string               { return d.cfg.ConnectionString() }
func (d *Dialect) Flavor() sqlbuilder.Flavor { return sqlbuilder.PostgreSQL }
func (d *Dialect) MaxOpenConns() int         { return 10 }
func (d *Dialect) MaxParams() int            { return maxBindParams }

// SchemaStatements creates the artifact tables. REAL columns are widened to
// DOUBLE PRECISION to keep the API's float64 values intact.
func (d *Dialect) SchemaStatements() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS artifact_metadata (
			id BIGINT PRIMARY KEY,
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
			object_id BIGINT PRIMARY KEY,
			imagecount INTEGER,
			mediacount INTEGER,
			colorcount INTEGER,
			rank DOUBLE PRECISION,
			datedbegin INTEGER,
			datedend INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS artifact_colors (
			object_id BIGINT NOT NULL,
			hue TEXT NOT NULL,
			percentage DOUBLE PRECISION,
			PRIMARY KEY (object_id, hue)
		)`,
	}
}

// ReplaceOnConflict emits INSERT ... ON CONFLICT (keys) DO UPDATE SET
// col = EXCLUDED.col for every non-key column.
func (d *Dialect) ReplaceOnConflict(table string, columns, keys []string, rows [][]any) (string, []any) {
	ib := sqlbuilder.PostgreSQL.NewInsertBuilder()
	ib.InsertInto(table)
	ib.Cols(columns...)
	for _, row := range rows {
		ib.Values(row...)
	}

	updates := datasource.NonKeyColumns(columns, keys)
	if len(updates) == 0 {
		ib.SQL("ON CONFLICT (" + strings.Join(keys, ", ") + ") DO NOTHING")
		return ib.Build()
	}

	set := make([]string, len(updates))
	for i, c := range updates {
		set[i] = c + " = EXCLUDED." + c
	}
	ib.SQL("ON CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE SET " + strings.Join(set, ", "))
	return ib.Build()
}
