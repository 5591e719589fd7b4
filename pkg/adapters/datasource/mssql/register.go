//go:build mssql || all_adapters

package mssql

import (
	"github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource"
)

func init() {
	datasource.Register(datasource.DialectRegistration{
		Info: datasource.DialectInfo{
			Type:        "sqlserver",
			DisplayName: "Microsoft SQL Server",
			Description: "SQL Server 2019+, Azure SQL Database",
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
