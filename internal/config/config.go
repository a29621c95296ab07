// Package config loads server configuration from command-line flags,
// environment variables, a .env file and an optional YAML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Server  ServerConfig
	Auth    AuthConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// IsProduction reports whether the server runs in production.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// StorageConfig holds on-disk storage locations.
type StorageConfig struct {
	// DataPath holds booknotes.db, the session store, the search index and
	// the session key.
	DataPath string
}

// DatabasePath returns the SQLite database file.
func (s StorageConfig) DatabasePath() string {
	return filepath.Join(s.DataPath, "booknotes.db")
}

// SessionPath returns the badger session directory.
func (s StorageConfig) SessionPath() string {
	return filepath.Join(s.DataPath, "sessions")
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // default: 8080
	ReadTimeout  time.Duration // default: 15s
	WriteTimeout time.Duration // default: 15s
	IdleTimeout  time.Duration // default: 60s
	CORSOrigins  []string      // default: ["*"]
}

// AuthConfig holds session and login configuration.
type AuthConfig struct {
	SessionTTL   time.Duration // 0 disables expiry
	CookieSecure bool          // default: true in production
	RateLimit    int           // login/register attempts per minute per client IP
	RateBurst    int
}

// fileConfig is the YAML file layout. Values are kept raw so they go
// through the same parsing as flags and environment variables.
type fileConfig struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	DataPath string `yaml:"data_path"`
	Server   struct {
		Port         string `yaml:"port"`
		ReadTimeout  string `yaml:"read_timeout"`
		WriteTimeout string `yaml:"write_timeout"`
		IdleTimeout  string `yaml:"idle_timeout"`
		CORSOrigins  string `yaml:"cors_origins"`
	} `yaml:"server"`
	Auth struct {
		SessionTTL   string `yaml:"session_ttl"`
		CookieSecure string `yaml:"cookie_secure"`
		RateLimit    string `yaml:"rate_limit"`
		RateBurst    string `yaml:"rate_burst"`
	} `yaml:"auth"`
}

// source resolves one setting with precedence flag > env > file > default.
type source struct {
	file fileConfig
	errs []error
}

func (s *source) get(flagValue, envKey, fileValue, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

func (s *source) duration(flagValue, envKey, fileValue, defaultValue string) time.Duration {
	raw := s.get(flagValue, envKey, fileValue, defaultValue)
	d, err := time.ParseDuration(raw)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("invalid %s %q: %w", envKey, raw, err))
	}
	return d
}

func (s *source) integer(flagValue, envKey, fileValue string, defaultValue int) int {
	raw := s.get(flagValue, envKey, fileValue, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("invalid %s %q: %w", envKey, raw, err))
	}
	return n
}

// boolean accepts "true", "1" and "yes" (case-insensitive) as true.
func (s *source) boolean(flagValue, envKey, fileValue string, defaultValue bool) bool {
	raw := strings.ToLower(s.get(flagValue, envKey, fileValue, ""))
	if raw == "" {
		return defaultValue
	}
	return raw == "true" || raw == "1" || raw == "yes"
}

// LoadConfig loads configuration using the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds the configuration from args with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. YAML file given by -config or CONFIG_FILE.
// 5. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	flags := flag.NewFlagSet("booknotes", flag.ContinueOnError)

	env := flags.String("env", "", "Environment (development, staging, production)")
	logLevel := flags.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flags.String("data-path", "", "Directory for the database, sessions and search index")

	serverPort := flags.String("port", "", "Server port (default: 8080)")
	readTimeout := flags.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flags.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flags.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := flags.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")

	sessionTTL := flags.String("session-ttl", "", "Session lifetime, 0 for no expiry (default: 720h)")
	cookieSecure := flags.String("cookie-secure", "", "Mark the session cookie Secure (default: true in production)")
	rateLimit := flags.String("auth-rate-limit", "", "Login/register attempts per minute per IP (default: 20)")
	rateBurst := flags.String("auth-rate-burst", "", "Login/register burst size (default: 5)")

	envFile := flags.String("env-file", ".env", "Path to .env file")
	configFile := flags.String("config", "", "Path to YAML config file")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	src := &source{}
	if path := src.get(*configFile, "CONFIG_FILE", "", ""); path != "" {
		file, err := readFile(path)
		if err != nil {
			return nil, err
		}
		src.file = file
	}
	f := src.file

	cfg := &Config{
		App: AppConfig{
			Environment: src.get(*env, "ENV", f.Env, "development"),
		},
		Logger: LoggerConfig{
			Level: src.get(*logLevel, "LOG_LEVEL", f.LogLevel, "info"),
		},
		Storage: StorageConfig{
			DataPath: src.get(*dataPath, "DATA_PATH", f.DataPath, ""),
		},
		Server: ServerConfig{
			Port:         src.get(*serverPort, "SERVER_PORT", f.Server.Port, "8080"),
			ReadTimeout:  src.duration(*readTimeout, "SERVER_READ_TIMEOUT", f.Server.ReadTimeout, "15s"),
			WriteTimeout: src.duration(*writeTimeout, "SERVER_WRITE_TIMEOUT", f.Server.WriteTimeout, "15s"),
			IdleTimeout:  src.duration(*idleTimeout, "SERVER_IDLE_TIMEOUT", f.Server.IdleTimeout, "60s"),
			CORSOrigins:  splitList(src.get(*corsOrigins, "CORS_ORIGINS", f.Server.CORSOrigins, "*")),
		},
		Auth: AuthConfig{
			SessionTTL: src.duration(*sessionTTL, "SESSION_TTL", f.Auth.SessionTTL, "720h"),
			RateLimit:  src.integer(*rateLimit, "AUTH_RATE_LIMIT", f.Auth.RateLimit, 20),
			RateBurst:  src.integer(*rateBurst, "AUTH_RATE_BURST", f.Auth.RateBurst, 5),
		},
	}
	cfg.Auth.CookieSecure = src.boolean(*cookieSecure, "COOKIE_SECURE", f.Auth.CookieSecure, cfg.App.IsProduction())

	if err := errors.Join(src.errs...); err != nil {
		return nil, err
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
	case "":
		return errors.New("ENV is required")
	default:
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	switch strings.ToLower(c.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Storage.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Server.Port)
	}

	if c.Auth.SessionTTL < 0 {
		return fmt.Errorf("session TTL must not be negative: %s", c.Auth.SessionTTL)
	}
	if c.Auth.RateLimit <= 0 || c.Auth.RateBurst <= 0 {
		return errors.New("auth rate limit and burst must be positive")
	}

	return nil
}

// expandDataPath applies the default location and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	expanded, err := expandPath(c.Storage.DataPath, filepath.Join(homeDir, ".booknotes"))
	if err != nil {
		return err
	}
	c.Storage.DataPath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is used.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return absPath, nil
}

func readFile(path string) (fileConfig, error) {
	var f fileConfig

	data, err := os.ReadFile(path) //#nosec G304 -- config file path is operator input
	if err != nil {
		return f, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return f, nil
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
