package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Catalog sources.
const (
	SourceMemory = "memory"
	SourceRedis  = "redis"
	SourceValkey = "valkey"
	SourceSQLite = "sqlite"
	SourceRemote = "remote"
)

// Config holds the ongsearch API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	CORS     CORSConfig     `yaml:"cors"`
	Auth     AuthConfig     `yaml:"auth"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Remote   RemoteConfig   `yaml:"remote"`
	Search   SearchConfig   `yaml:"search"`
	Audit    AuditConfig    `yaml:"audit"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// CORSConfig lists browser origins allowed to call the API. Empty allows any.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig selects where the product catalog comes from.
type CatalogConfig struct {
	Source      string `yaml:"source"`        // memory, redis, valkey, sqlite, remote (default: memory)
	MockDelayMs int    `yaml:"mock_delay_ms"` // simulated latency of the memory source
	CacheTTLSec int    `yaml:"cache_ttl_sec"` // 0 disables the snapshot cache
}

// DatabaseConfig holds redis/valkey connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SQLiteConfig holds the sqlite catalog settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RemoteConfig holds the upstream catalog API settings.
type RemoteConfig struct {
	BaseURL    string `yaml:"base_url"`
	Token      string `yaml:"token"`
	PageSize   int    `yaml:"page_size"`
	MaxPages   int    `yaml:"max_pages"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// SearchConfig tunes the search pipeline.
type SearchConfig struct {
	PageSize            int               `yaml:"page_size"`
	ForceFallbackMarker *string           `yaml:"force_fallback_marker"` // nil keeps the default, "" disables
	FoldDiacritics      bool              `yaml:"fold_diacritics"`
	Vocabulary          []VocabularyEntry `yaml:"vocabulary"` // empty keeps the built-in table
}

// VocabularyEntry maps keywords to a category label.
type VocabularyEntry struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// AuditConfig controls the search decision and request logs.
type AuditConfig struct {
	Enabled    bool   `yaml:"enabled"`
	FilePath   string `yaml:"file_path"` // empty writes to stdout
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables in data, decodes it and applies defaults.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceMemory
	}
	c.Catalog.Source = strings.ToLower(c.Catalog.Source)
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "ong:"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "ongsearch.db"
	}
	if c.Remote.PageSize <= 0 {
		c.Remote.PageSize = 100
	}
	if c.Remote.MaxPages <= 0 {
		c.Remote.MaxPages = 50
	}
	if c.Remote.TimeoutSec <= 0 {
		c.Remote.TimeoutSec = 10
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = 12
	}
	if c.Audit.MaxSizeMB <= 0 {
		c.Audit.MaxSizeMB = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Catalog.MockDelayMs < 0 {
		return fmt.Errorf("catalog.mock_delay_ms must be non-negative, got %d", c.Catalog.MockDelayMs)
	}
	if c.Catalog.CacheTTLSec < 0 {
		return fmt.Errorf("catalog.cache_ttl_sec must be non-negative, got %d", c.Catalog.CacheTTLSec)
	}

	switch c.Catalog.Source {
	case SourceMemory:
	case SourceRedis, SourceValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for catalog.source %q", c.Catalog.Source)
		}
	case SourceSQLite:
		if c.SQLite.Path == "" {
			return errors.New("sqlite.path is required")
		}
	case SourceRemote:
		u, err := url.Parse(c.Remote.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("remote.base_url must be an absolute http(s) URL, got %q", c.Remote.BaseURL)
		}
	default:
		return fmt.Errorf(
			"catalog.source must be one of memory, redis, valkey, sqlite, remote, got %q",
			c.Catalog.Source,
		)
	}

	for i, v := range c.Search.Vocabulary {
		if strings.TrimSpace(v.Label) == "" || len(v.Keywords) == 0 {
			return fmt.Errorf("search.vocabulary[%d] needs a label and at least one keyword", i)
		}
	}
	return nil
}

// Writable reports whether the configured source accepts product writes.
func (c *Config) Writable() bool {
	return c.Catalog.Source != SourceRemote
}

// loadDotEnv loads KEY=VALUE pairs from path without overriding the process environment.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
