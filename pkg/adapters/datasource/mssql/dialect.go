//go:build mssql || all_adapters

package mssql

import (
	"strings"

	"github.com/huandu/go-sqlbuilder"
	_ "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
)

// maxRPCParams stays under SQL Server's 2100 parameters per request.
const maxRPCParams = 2000

// Dialect stores artifacts in SQL Server.
type Dialect struct {
	cfg *Config
}

// NewDialect creates a SQL Server dialect for cfg.
func NewDialect(cfg *Config) *Dialect {
	return &Dialect{cfg: cfg}
}

var _ datasource.Dialect = (*Dialect)(nil)

func (d *Dialect) Type() string              { return "sqlserver" }
func (d *Dialect) DriverName() string        { return "sqlserver" }
func (d *Dialect) DSN() string               { return d.cfg.ConnectionString() }
func (d *Dialect) Flavor() sqlbuilder.Flavor { return sqlbuilder.SQLServer }
func (d *Dialect) MaxOpenConns() int         { return 10 }
func (d *Dialect) MaxParams() int            { return maxRPCParams }

// SchemaStatements creates the artifact tables when missing. Key columns
// cannot be NVARCHAR(MAX), so hue is bounded.
func (d *Dialect) SchemaStatements() []string {
	return []string{
		`IF OBJECT_ID(N'artifact_metadata', N'U') IS NULL
		CREATE TABLE artifact_metadata (
			id BIGINT NOT NULL PRIMARY KEY,
			title NVARCHAR(MAX) NULL,
			culture NVARCHAR(MAX) NULL,
			dated NVARCHAR(MAX) NULL,
			period NVARCHAR(MAX) NULL,
			division NVARCHAR(MAX) NULL,
			medium NVARCHAR(MAX) NULL,
			dimensions NVARCHAR(MAX) NULL,
			weight NVARCHAR(MAX) NULL,
			department NVARCHAR(MAX) NULL,
			accessionyear INT NULL,
			classification NVARCHAR(MAX) NULL
		)`,
		`IF OBJECT_ID(N'artifact_media', N'U') IS NULL
		CREATE TABLE artifact_media (
			object_id BIGINT NOT NULL PRIMARY KEY,
			imagecount INT NULL,
			mediacount INT NULL,
			colorcount INT NULL,
			rank FLOAT NULL,
			datedbegin INT NULL,
			datedend INT NULL
		)`,
		`IF OBJECT_ID(N'artifact_colors', N'U') IS NULL
		CREATE TABLE artifact_colors (
			object_id BIGINT NOT NULL,
			hue NVARCHAR(100) NOT NULL,
			percentage FLOAT NULL,
			PRIMARY KEY (object_id, hue)
		)`,
	}
}

// ReplaceOnConflict emits a MERGE over a VALUES source:
// matched rows get every non-key column updated, the rest are inserted.
func (d *Dialect) ReplaceOnConflict(table string, columns, keys []string, rows [][]any) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(rows)*len(columns))

	rowPlaceholders := "(" + strings.TrimSuffix(strings.Repeat("$?, ", len(columns)), ", ") + ")"

	sb.WriteString("MERGE INTO " + table + " WITH (HOLDLOCK) AS t USING (VALUES ")
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(rowPlaceholders)
		args = append(args, row...)
	}
	sb.WriteString(") AS s (" + strings.Join(columns, ", ") + ")")

	on := make([]string, len(keys))
	for i, k := range keys {
		on[i] = "t." + k + " = s." + k
	}
	sb.WriteString(" ON " + strings.Join(on, " AND "))

	if updates := datasource.NonKeyColumns(columns, keys); len(updates) > 0 {
		set := make([]string, len(updates))
		for i, c := range updates {
			set[i] = "t." + c + " = s." + c
		}
		sb.WriteString(" WHEN MATCHED THEN UPDATE SET " + strings.Join(set, ", "))
	}

	src := make([]string, len(columns))
	for i, c := range columns {
		src[i] = "s." + c
	}
	sb.WriteString(" WHEN NOT MATCHED THEN INSERT (" + strings.Join(columns, ", ") + ") VALUES (" + strings.Join(src, ", ") + ");")

	return sqlbuilder.Build(sb.String(), args...).BuildWithFlavor(sqlbuilder.SQLServer)
}
