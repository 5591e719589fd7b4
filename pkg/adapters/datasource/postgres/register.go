//go:build postgres || all_adapters

package postgres

import (
	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.DialectRegistration{
		Info: datasource.DialectInfo{
			Type:        "postgres",
			DisplayName: "PostgreSQL",
			Description: "PostgreSQL 12+, Aurora PostgreSQL, Supabase",
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
