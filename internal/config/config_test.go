package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
fetch:
  timeout: 5s
  max_concurrent: 2
storage:
  driver: sqlite
  dsn: /tmp/wca.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 2, cfg.Fetch.MaxConcurrent)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/wca.db", cfg.Storage.DSN)

	// untouched keys keep their defaults
	assert.Equal(t, Default().Fetch.UserAgent, cfg.Fetch.UserAgent)
	assert.Equal(t, 4, cfg.Runner.Workers)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
email:
  provider: dryrun
runner:
  workers: 2
`)
	t.Setenv("WCA_EMAIL_PROVIDER", "resend")
	t.Setenv("WCA_EMAIL_RESEND_API_KEY", "re_123")
	t.Setenv("WCA_RUNNER_WORKERS", "6")
	t.Setenv("WCA_FETCH_TIMEOUT", "45s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderResend, cfg.Email.Provider)
	assert.Equal(t, "re_123", cfg.Email.ResendAPIKey)
	assert.Equal(t, 6, cfg.Runner.Workers)
	assert.Equal(t, 45*time.Second, cfg.Fetch.Timeout)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidSettings(t *testing.T) {
	path := writeConfig(t, `
email:
  provider: resend
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resend_api_key")
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"WCA_EMAIL_RESEND_API_KEY", "email.resend_api_key"},
		{"WCA_LOG_LEVEL", "log.level"},
		{"WCA_STORAGE_DATA_DIR", "storage.data_dir"},
		{"WCA_DEBUG", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, _ := envKey(tt.in, "x")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero workers", func(c *Config) { c.Runner.Workers = 0 }, true},
		{"negative concurrency", func(c *Config) { c.Discovery.Concurrency = -1 }, true},
		{"zero fetch cap", func(c *Config) { c.Fetch.MaxConcurrent = 0 }, true},
		{"zero timeout", func(c *Config) { c.Fetch.Timeout = 0 }, true},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }, true},
		{"sqlite without dsn", func(c *Config) { c.Storage.Driver = DriverSQLite }, true},
		{"unknown provider", func(c *Config) { c.Email.Provider = "smtp" }, true},
		{"resend with key", func(c *Config) {
			c.Email.Provider = ProviderResend
			c.Email.ResendAPIKey = "re_1"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
