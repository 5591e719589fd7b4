package datasource

import (
	"fmt"
	"sort"
	"sync"
)

// DialectInfo describes a registered store type.
type DialectInfo struct {
	Type        string `json:"type"`         // "sqlite", "postgres", "sqlserver"
	DisplayName string `json:"display_name"` // "SQLite", "PostgreSQL", "Microsoft SQL Server"
	Description string `json:"description"`
}

// DialectRegistration contains info + factory for a store type.
// Factory receives the generic connection map (host, port, user, password,
// database, ssl_mode, path).
type DialectRegistration struct {
	Info    DialectInfo
	Factory func(config map[string]any) (Dialect, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]DialectRegistration)
)

// Register is called by each dialect's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg DialectRegistration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredDialects returns info for all registered dialects, sorted by type.
func RegisteredDialects() []DialectInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]DialectInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })
	return result
}

// IsRegistered checks if a store type is available in this build.
func IsRegistered(dbType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[dbType]
	return ok
}

// NewDialect builds the dialect registered for dbType. Postgres and SQL Server
// are only registered when built with their tags (postgres, mssql or
// all_adapters).
func NewDialect(dbType string, config map[string]any) (Dialect, error) {
	registryMu.RLock()
	reg, ok := registry[dbType]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unsupported database type %q (not compiled into this build)", dbType)
	}
	return reg.Factory(config)
}
