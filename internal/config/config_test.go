package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"ENV", "LOG_LEVEL", "DATA_PATH", "SERVER_PORT", "SERVER_READ_TIMEOUT",
	"SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT", "CORS_ORIGINS", "SESSION_TTL",
	"COOKIE_SECURE", "AUTH_RATE_LIMIT", "AUTH_RATE_BURST", "CONFIG_FILE",
}

// isolateEnv blanks every config variable and returns args pointing at a
// .env file that does not exist.
func isolateEnv(t *testing.T) (dir string, args []string) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "") // restores the original value on cleanup
		require.NoError(t, os.Unsetenv(key))
	}
	dir = t.TempDir()
	return dir, []string{"-env-file", filepath.Join(dir, "missing.env")}
}

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/some/path"},
		Server:  ServerConfig{Port: "8080"},
		Auth:    AuthConfig{SessionTTL: time.Hour, RateLimit: 20, RateBurst: 5},
	}
}

func TestLoad_Defaults(t *testing.T) {
	_, args := isolateEnv(t)

	cfg, err := Load(args)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 720*time.Hour, cfg.Auth.SessionTTL)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 20, cfg.Auth.RateLimit)
	assert.True(t, filepath.IsAbs(cfg.Storage.DataPath))
}

func TestLoad_Precedence(t *testing.T) {
	dir, _ := isolateEnv(t)

	yamlPath := filepath.Join(dir, "booknotes.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
env: staging
log_level: warn
data_path: `+dir+`
server:
  port: "9000"
  cors_origins: "https://a.example, https://b.example"
auth:
  session_ttl: 1h
  rate_limit: "50"
`), 0o600))

	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("LOG_LEVEL=debug\nSERVER_PORT=9100\n"), 0o600))

	t.Setenv("SERVER_PORT", "9200")

	cfg, err := Load([]string{"-env-file", envPath, "-config", yamlPath, "-session-ttl", "0"})
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment, "file value")
	assert.Equal(t, "debug", cfg.Logger.Level, ".env beats file")
	assert.Equal(t, "9200", cfg.Server.Port, "env beats .env")
	assert.Equal(t, time.Duration(0), cfg.Auth.SessionTTL, "flag beats file")
	assert.Equal(t, 50, cfg.Auth.RateLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, dir, cfg.Storage.DataPath)
}

func TestLoad_ProductionSecuresCookie(t *testing.T) {
	_, args := isolateEnv(t)
	t.Setenv("ENV", "production")

	cfg, err := Load(args)
	require.NoError(t, err)
	assert.True(t, cfg.Auth.CookieSecure)

	t.Setenv("COOKIE_SECURE", "false")
	cfg, err = Load(args)
	require.NoError(t, err)
	assert.False(t, cfg.Auth.CookieSecure)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "SESSION_TTL", "forever"},
		{"bad rate", "AUTH_RATE_LIMIT", "lots"},
		{"bad env", "ENV", "test"},
		{"bad port", "SERVER_PORT", "http"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, args := isolateEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load(args)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	dir, args := isolateEnv(t)

	_, err := Load(append(args, "-config", filepath.Join(dir, "nope.yaml")))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"valid", func(*Config) {}, true},
		{"production", func(c *Config) { c.App.Environment = "production" }, true},
		{"empty env", func(c *Config) { c.App.Environment = "" }, false},
		{"env is case sensitive", func(c *Config) { c.App.Environment = "DEVELOPMENT" }, false},
		{"level is case insensitive", func(c *Config) { c.Logger.Level = "WARN" }, true},
		{"bad level", func(c *Config) { c.Logger.Level = "verbose" }, false},
		{"empty data path", func(c *Config) { c.Storage.DataPath = "" }, false},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }, false},
		{"no expiry", func(c *Config) { c.Auth.SessionTTL = 0 }, true},
		{"negative ttl", func(c *Config) { c.Auth.SessionTTL = -time.Second }, false},
		{"zero burst", func(c *Config) { c.Auth.RateBurst = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/notes", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestStoragePaths(t *testing.T) {
	s := StorageConfig{DataPath: "/data"}
	assert.Equal(t, "/data/booknotes.db", s.DatabasePath())
	assert.Equal(t, "/data/sessions", s.SessionPath())
}
