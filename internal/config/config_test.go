package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirychukyurii/dr-dashboard/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, config.DefaultAPIURL, cfg.Backend.APIURL)
	assert.Zero(t, cfg.Backend.Timeout)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.AutoRefresh.Enabled)
	assert.Equal(t, 30*time.Second, cfg.AutoRefresh.Interval)
	assert.False(t, cfg.Journal.Enabled())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
  base_path: /dr
backend:
  api_url: http://backend.internal:5000
  timeout: 10s
auto_refresh:
  enabled: true
  interval: 15s
journal:
  endpoints:
    - http://etcd-1:2379
`)

	t.Setenv("DRDASH_BACKEND__API_URL", "https://dr-api.example.com")
	t.Setenv("DRDASH_LOG__LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/dr", cfg.Server.BasePath)
	assert.Equal(t, "https://dr-api.example.com", cfg.Backend.APIURL, "environment wins over file")
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.AutoRefresh.Enabled)
	assert.Equal(t, 15*time.Second, cfg.AutoRefresh.Interval)
	assert.True(t, cfg.Journal.Enabled())
	assert.Equal(t, []string{"http://etcd-1:2379"}, cfg.Journal.Endpoints)
	assert.Equal(t, 5*time.Second, cfg.Journal.DialTimeout)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unterminated")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Server:  config.ServerConfig{Addr: ":8080"},
			Backend: config.BackendConfig{APIURL: "http://localhost:5000"},
			Cache:   config.CacheConfig{TTL: time.Minute},
			Log:     config.LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *config.Config) {},
		},
		{
			name:    "missing addr",
			mutate:  func(c *config.Config) { c.Server.Addr = "" },
			wantErr: "Addr",
		},
		{
			name:    "api url not a url",
			mutate:  func(c *config.Config) { c.Backend.APIURL = "localhost" },
			wantErr: "APIURL",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *config.Config) { c.Log.Level = "verbose" },
			wantErr: "Level",
		},
		{
			name:    "base path without slash",
			mutate:  func(c *config.Config) { c.Server.BasePath = "dr" },
			wantErr: "server.base_path",
		},
		{
			name: "auto refresh without interval",
			mutate: func(c *config.Config) {
				c.AutoRefresh = config.AutoRefreshConfig{Enabled: true}
			},
			wantErr: "auto_refresh.interval",
		},
		{
			name: "journal without dial timeout",
			mutate: func(c *config.Config) {
				c.Journal.Endpoints = []string{"http://etcd:2379"}
			},
			wantErr: "journal.dial_timeout",
		},
		{
			name: "backend tls cert without key",
			mutate: func(c *config.Config) {
				c.Backend.TLS = &config.TLSConfig{Cert: "client.pem"}
			},
			wantErr: "backend.tls.cert and backend.tls.key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
