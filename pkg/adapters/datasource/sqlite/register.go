package sqlite

import (
	"github.com/jmoiron/sqlx"

	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
)

func init() {
	// sqlx only knows the cgo driver name "sqlite3".
	sqlx.BindDriver("sqlite", sqlx.QUESTION)

	datasource.Register(datasource.DialectRegistration{
		Info: datasource.DialectInfo{
			Type:        "sqlite",
			DisplayName: "SQLite",
			Description: "Embedded file database (default)",
		},
		Factory: func(config map[string]any) (datasource.Dialect, error) {
			cfg, err := FromMap(config)
			if err != nil {
				return nil, err
			}
			return NewDialect(cfg), nil
		},
	})
}
