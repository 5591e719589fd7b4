package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// configFile is read from the working directory.
const configFile = "config.yaml"

// Database types accepted by database.type.
const (
	DatabaseSQLite    = "sqlite"
	DatabasePostgres  = "postgres"
	DatabaseSQLServer = "sqlserver"
)

var validate = validator.New()

// Config holds all configuration for artifact-collector.
// Configuration can come from YAML file (config.yaml), a .env file, or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (API key, database password) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1" validate:"required"`
	Port     string `yaml:"port" env:"PORT" env-default:"3480" validate:"required,numeric"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Remote collection API
	Museum MuseumConfig `yaml:"museum"`

	// Local relational store
	Database DatabaseConfig `yaml:"database"`
}

// MuseumConfig holds settings for the museum collection API.
type MuseumConfig struct {
	BaseURL        string `yaml:"base_url" env:"MUSEUM_BASE_URL" env-default:"https://api.harvardartmuseums.org" validate:"required,url"`
	APIKey         string `yaml:"-" env:"MUSEUM_API_KEY"` // Secret - not in YAML
	PageSize       int    `yaml:"page_size" env:"MUSEUM_PAGE_SIZE" env-default:"100" validate:"min=1,max=100"`
	DefaultLimit   int    `yaml:"default_limit" env:"MUSEUM_DEFAULT_LIMIT" env-default:"2500" validate:"min=1"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"MUSEUM_TIMEOUT_SECONDS" env-default:"60" validate:"min=1"`
}

// DatabaseConfig selects and addresses the artifact store.
// Path is used by sqlite; the network fields by postgres and sqlserver.
type DatabaseConfig struct {
	Type     string `yaml:"type" env:"DB_TYPE" env-default:"sqlite" validate:"oneof=sqlite postgres sqlserver"`
	Path     string `yaml:"path" env:"DB_PATH" env-default:"artifacts.db"`
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"0"`
	User     string `yaml:"user" env:"DB_USER" env-default:""`
	Password string `yaml:"-" env:"DB_PASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"DB_NAME" env-default:"artifacts"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
}

// Load reads configuration from config.yaml with environment variable overrides.
// A .env file in the working directory, when present, is loaded into the
// environment first without overriding variables that are already set.
// When config.yaml is absent the configuration comes from the environment alone.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		if err := cleanenv.ReadConfig(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	} else if errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat %s: %w", configFile, err)
	}

	cfg.Database.Type = strings.ToLower(strings.TrimSpace(cfg.Database.Type))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// Validate checks field constraints declared in validate tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the environment wants human-readable logs.
func (c *Config) IsDevelopment() bool {
	switch c.Env {
	case "local", "dev", "test":
		return true
	}
	return false
}

// DefaultPort returns the conventional port for network database types.
func (c *DatabaseConfig) DefaultPort() int {
	switch c.Type {
	case DatabasePostgres:
		return 5432
	case DatabaseSQLServer:
		return 1433
	}
	return 0
}

// EffectivePort returns Port, or the type's default when Port is unset.
func (c *DatabaseConfig) EffectivePort() int {
	if c.Port > 0 {
		return c.Port
	}
	return c.DefaultPort()
}

// Redacted returns a short description of the target safe for logs.
func (c *DatabaseConfig) Redacted() string {
	if c.Type == DatabaseSQLite || c.Type == "" {
		return "sqlite:" + c.Path
	}
	return fmt.Sprintf("%s://%s@%s:%d/%s", c.Type, c.User, c.Host, c.EffectivePort(), c.Database)
}
