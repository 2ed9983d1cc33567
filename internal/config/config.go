// Package config loads runtime settings for ticketstats from the environment.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultInput is analysed when no path is given on the command line.
const DefaultInput = "ticket_search_2025-08-25_00-08.xlsx"

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	InvalidValue    ConfigErrorType = "INVALID_VALUE"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Key     string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case InvalidValue:
		return fmt.Sprintf("invalid value for %s: %s", e.Key, e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// Config aggregates runtime configuration.
type Config struct {
	Input   InputConfig
	Report  ReportConfig
	Logger  LoggerConfig
	Watch   WatchConfig
	History HistoryConfig
}

// InputConfig names the spreadsheet analysed by a single run.
type InputConfig struct {
	DefaultPath string
}

// ReportConfig controls where and how reports are written.
type ReportConfig struct {
	OutputDir string
	JSON      bool
	Verbose   bool
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// WatchConfig enables watch mode when Dir is set.
type WatchConfig struct {
	Dir             string
	DebounceSeconds int
	StableMillis    int
}

// Enabled reports whether watch mode was requested.
func (w WatchConfig) Enabled() bool {
	return w.Dir != ""
}

// Debounce returns the debounce window as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceSeconds) * time.Second
}

// StableWait returns how long a file's size must hold before it is read.
func (w WatchConfig) StableWait() time.Duration {
	return time.Duration(w.StableMillis) * time.Millisecond
}

// HistoryConfig holds the optional run-history database settings.
type HistoryConfig struct {
	DatabaseURL string
	Schema      string
}

// Enabled reports whether runs should be recorded.
func (h HistoryConfig) Enabled() bool {
	return h.DatabaseURL != ""
}

var schemaPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Load reads configuration from environment variables, applying defaults
// where possible. A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	jsonReport, err := getEnvAsBool("TICKETSTATS_JSON", false)
	if err != nil {
		return nil, err
	}
	verbose, err := getEnvAsBool("TICKETSTATS_VERBOSE", false)
	if err != nil {
		return nil, err
	}
	debounce, err := getEnvAsInt("TICKETSTATS_WATCH_DEBOUNCE_SECONDS", 2)
	if err != nil {
		return nil, err
	}
	stable, err := getEnvAsInt("TICKETSTATS_WATCH_STABLE_MS", 1000)
	if err != nil {
		return nil, err
	}

	dbURL := os.Getenv("TICKETSTATS_DB_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	cfg := &Config{
		Input: InputConfig{
			DefaultPath: getEnv("TICKETSTATS_DEFAULT_INPUT", DefaultInput),
		},
		Report: ReportConfig{
			OutputDir: getEnv("TICKETSTATS_OUTPUT_DIR", "."),
			JSON:      jsonReport,
			Verbose:   verbose,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Watch: WatchConfig{
			Dir:             os.Getenv("TICKETSTATS_WATCH_DIR"),
			DebounceSeconds: debounce,
			StableMillis:    stable,
		},
		History: HistoryConfig{
			DatabaseURL: dbURL,
			Schema:      getEnv("TICKETSTATS_DB_SCHEMA", "ticketstats"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Report.OutputDir) == "" {
		return &ConfigError{
			Type:    ValidationError,
			Message: "output directory cannot be empty",
		}
	}

	if c.Watch.DebounceSeconds < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("watch debounce must not be negative, got %d", c.Watch.DebounceSeconds),
		}
	}
	if c.Watch.StableMillis < 0 {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("watch stability wait must not be negative, got %d", c.Watch.StableMillis),
		}
	}

	if c.History.Enabled() && !schemaPattern.MatchString(c.History.Schema) {
		return &ConfigError{
			Type:    ValidationError,
			Message: fmt.Sprintf("invalid schema name %q", c.History.Schema),
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ConfigError{Type: InvalidValue, Key: key, Message: err.Error()}
	}
	return parsed, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, &ConfigError{Type: InvalidValue, Key: key, Message: err.Error()}
	}
	return parsed, nil
}
