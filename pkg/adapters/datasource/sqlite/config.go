package sqlite

import (
	"fmt"
	"strings"
)

// Config contains SQLite-specific connection options.
type Config struct {
	Path string // database file; ":memory:" is rejected since the pool would split it
}

// DefaultPath returns the default database file.
func DefaultPath() string {
	return "artifacts.db"
}

// FromMap creates a Config from a generic config map.
func FromMap(config map[string]any) (*Config, error) {
	cfg := &Config{Path: DefaultPath()}

	if path, ok := config["path"].(string); ok && strings.TrimSpace(path) != "" {
		cfg.Path = strings.TrimSpace(path)
	}

	if cfg.Path == ":memory:" {
		return nil, fmt.Errorf("in-memory databases are not supported; use a file path")
	}

	return cfg, nil
}
