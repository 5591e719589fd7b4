//go:build mssql || all_adapters

package main

import (
	_ "github.com/ekaya-inc/artifact-collector/pkg/adapters/datasource/mssql"
)
