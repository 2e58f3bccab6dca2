package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of environment variables overriding file values.
	// DRDASH_BACKEND__API_URL maps to backend.api_url
	EnvPrefix = "DRDASH_"

	// DefaultAPIURL is the backend base URL used when none is configured
	DefaultAPIURL = "http://localhost:5000"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Backend     BackendConfig     `koanf:"backend"`
	Cache       CacheConfig       `koanf:"cache"`
	Log         LogConfig         `koanf:"log"`
	AutoRefresh AutoRefreshConfig `koanf:"auto_refresh"`
	Journal     JournalConfig     `koanf:"journal"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Addr         string        `koanf:"addr" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gte=0"`
	BasePath     string        `koanf:"base_path"` // Optional base path for reverse proxy (e.g., "/dr-dashboard")
}

// BackendConfig represents the DR backend API the dashboard talks to
type BackendConfig struct {
	APIURL  string        `koanf:"api_url" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gte=0"` // 0 leaves the transport default in place
	TLS     *TLSConfig    `koanf:"tls"`
}

// CacheConfig represents cache configuration for operator notices
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl" validate:"gt=0"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `koanf:"level" validate:"oneof=debug info warn error"`
	File       string `koanf:"file"` // Empty means stdout
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
}

// AutoRefreshConfig represents periodic status reload configuration
type AutoRefreshConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// JournalConfig represents the etcd-backed failover journal.
// The journal is disabled when no endpoints are configured.
type JournalConfig struct {
	Endpoints   []string      `koanf:"endpoints"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	TLS         *TLSConfig    `koanf:"tls"`
}

// Enabled reports whether a journal backend is configured
func (j JournalConfig) Enabled() bool {
	return len(j.Endpoints) > 0
}

// TLSConfig represents client TLS material
type TLSConfig struct {
	CA   string `koanf:"ca"`
	Cert string `koanf:"cert"`
	Key  string `koanf:"key"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.addr":           ":8080",
		"server.read_timeout":   "15s",
		"server.write_timeout":  "60s",
		"backend.api_url":       DefaultAPIURL,
		"backend.timeout":       "0s",
		"cache.ttl":             "1m",
		"log.level":             "info",
		"log.max_size_mb":       100,
		"log.max_backups":       10,
		"auto_refresh.enabled":  false,
		"auto_refresh.interval": "30s",
		"journal.dial_timeout":  "5s",
	}
}

// Load loads configuration from defaults, the specified file and the environment.
// A missing file is not an error: defaults and environment variables are enough to run.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Load YAML config
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	// Environment overrides, DRDASH_SERVER__ADDR -> server.addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			first := validationErrors[0]
			return fmt.Errorf("%s is invalid (rule: %s)", first.Namespace(), first.Tag())
		}
		return err
	}

	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with '/'")
	}

	// Validate auto refresh configuration
	if c.AutoRefresh.Enabled && c.AutoRefresh.Interval <= 0 {
		return fmt.Errorf("auto_refresh.interval must be positive when auto refresh is enabled")
	}

	if c.Backend.TLS != nil {
		if err := c.Backend.TLS.validate("backend.tls"); err != nil {
			return err
		}
	}

	if c.Journal.Enabled() {
		if c.Journal.DialTimeout <= 0 {
			return fmt.Errorf("journal.dial_timeout must be positive when journal is enabled")
		}
		if c.Journal.TLS != nil {
			if err := c.Journal.TLS.validate("journal.tls"); err != nil {
				return err
			}
		}
	}

	return nil
}

func (t *TLSConfig) validate(prefix string) error {
	if (t.Cert == "") != (t.Key == "") {
		return fmt.Errorf("%s.cert and %s.key must be set together", prefix, prefix)
	}
	if t.CA == "" && t.Cert == "" {
		return fmt.Errorf("%s requires a ca or a client certificate", prefix)
	}
	return nil
}
