// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	CORS    CORSConfig    `yaml:"cors"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	OpenAPI OpenAPIConfig `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LegacyRoutes    *bool         `yaml:"legacy_routes"` // nil means enabled
	TLS             TLSConfig     `yaml:"tls"`
}

// LegacyRoutesEnabled reports whether the original endpoint names are mounted.
func (s ServerConfig) LegacyRoutesEnabled() bool {
	return s.LegacyRoutes == nil || *s.LegacyRoutes
}

// TLSConfig enables automatic certificates via ACME when domains are set.
type TLSConfig struct {
	Domains  []string `yaml:"domains"`
	CacheDir string   `yaml:"cache_dir"`
}

// Enabled reports whether TLS is configured.
func (t TLSConfig) Enabled() bool {
	return len(t.Domains) > 0
}

// CORSConfig configures cross-origin requests.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"` // empty allows all
}

// StoreConfig configures the document store.
type StoreConfig struct {
	Driver         string        `yaml:"driver"` // "mongo", "sqlite" or "memory"
	URI            string        `yaml:"uri"`
	Host           string        `yaml:"host"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Database       string        `yaml:"database"`
	AppName        string        `yaml:"app_name"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	DSN            string        `yaml:"dsn"` // sqlite file path
}

// MongoURI returns the connection string. An explicit URI wins; otherwise
// one is built from user, password and host.
func (s StoreConfig) MongoURI() string {
	if s.URI != "" {
		return s.URI
	}
	if s.User == "" && s.Password == "" {
		return ""
	}
	u := url.URL{
		Scheme: "mongodb+srv",
		User:   url.UserPassword(s.User, s.Password),
		Host:   s.Host,
		Path:   "/",
	}
	q := url.Values{}
	q.Set("retryWrites", "true")
	q.Set("w", "majority")
	if s.AppName != "" {
		q.Set("appName", s.AppName)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable /metrics endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
}

// OpenAPIConfig configures OpenAPI/Swagger documentation.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"` // Enable /swagger endpoints
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return finish(&cfg)
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	PORTFOLIO_SERVER_HOST        - Server host (default: 0.0.0.0)
//	PORTFOLIO_SERVER_PORT        - Server port (default: 5000, PORT also accepted)
//	PORTFOLIO_LEGACY_ROUTES      - Mount the original endpoint names (default: true)
//	PORTFOLIO_CORS_ORIGINS       - Comma separated allowed origins (default: all)
//	PORTFOLIO_STORE_DRIVER       - mongo, sqlite or memory (default: mongo)
//	PORTFOLIO_STORE_URI          - MongoDB connection string
//	PORTFOLIO_STORE_USER         - MongoDB user (DB_USER also accepted)
//	PORTFOLIO_STORE_PASSWORD     - MongoDB password (DB_PASS also accepted)
//	PORTFOLIO_STORE_DATABASE     - MongoDB database (default: Tanzim)
//	PORTFOLIO_STORE_DSN          - SQLite path (default: portfolio.db)
//	PORTFOLIO_LOG_LEVEL          - Log level: debug, info, warn, error (default: info)
//	PORTFOLIO_LOG_FORMAT         - Log format: json or console (default: json)
//	PORTFOLIO_METRICS_ENABLED    - Enable /metrics endpoint
//	PORTFOLIO_OPENAPI_ENABLED    - Enable /swagger
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

// LoadWithFallback loads from file when it exists, otherwise from the
// environment alone.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	// Variables understood by the original deployment. The prefixed
	// forms below take precedence.
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Store.User = v
	}
	if v := os.Getenv("DB_PASS"); v != "" {
		cfg.Store.Password = v
	}

	// Server configuration
	if v := os.Getenv("PORTFOLIO_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PORTFOLIO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PORTFOLIO_SERVER_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("PORTFOLIO_SERVER_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if v := os.Getenv("PORTFOLIO_SERVER_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("PORTFOLIO_LEGACY_ROUTES"); v != "" {
		b := parseBool(v)
		cfg.Server.LegacyRoutes = &b
	}
	if v := os.Getenv("PORTFOLIO_TLS_DOMAINS"); v != "" {
		cfg.Server.TLS.Domains = splitList(v)
	}

	// CORS configuration
	if v := os.Getenv("PORTFOLIO_CORS_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitList(v)
	}

	// Store configuration
	if v := os.Getenv("PORTFOLIO_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("PORTFOLIO_STORE_URI"); v != "" {
		cfg.Store.URI = v
	}
	if v := os.Getenv("PORTFOLIO_STORE_HOST"); v != "" {
		cfg.Store.Host = v
	}
	if v := os.Getenv("PORTFOLIO_STORE_USER"); v != "" {
		cfg.Store.User = v
	}
	if v := os.Getenv("PORTFOLIO_STORE_PASSWORD"); v != "" {
		cfg.Store.Password = v
	}
	if v := os.Getenv("PORTFOLIO_STORE_DATABASE"); v != "" {
		cfg.Store.Database = v
	}
	if v := os.Getenv("PORTFOLIO_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}

	// Logging configuration
	if v := os.Getenv("PORTFOLIO_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PORTFOLIO_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("PORTFOLIO_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("PORTFOLIO_METRICS_PATH"); v != "" {
		cfg.Metrics.Path = v
	}

	// OpenAPI configuration
	if v := os.Getenv("PORTFOLIO_OPENAPI_ENABLED"); v != "" {
		cfg.OpenAPI.Enabled = parseBool(v)
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 15 * time.Second
	}
	if cfg.Server.TLS.CacheDir == "" {
		cfg.Server.TLS.CacheDir = "certs"
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = DriverMongo
	}
	if cfg.Store.Host == "" {
		cfg.Store.Host = "cluster0.oaguo.mongodb.net"
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = "Tanzim"
	}
	if cfg.Store.AppName == "" {
		cfg.Store.AppName = "Cluster0"
	}
	if cfg.Store.ConnectTimeout == 0 {
		cfg.Store.ConnectTimeout = 10 * time.Second
	}
	if cfg.Store.DSN == "" {
		cfg.Store.DSN = "portfolio.db"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	switch cfg.Store.Driver {
	case DriverMongo:
		if cfg.Store.MongoURI() == "" {
			return fmt.Errorf("store.uri or store.user and store.password are required for the mongo driver")
		}
		if cfg.Store.Database == "" {
			return fmt.Errorf("store.database is required for the mongo driver")
		}
	case DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("store.driver must be one of: mongo, sqlite, memory, got %q", cfg.Store.Driver)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	return nil
}
