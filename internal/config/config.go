// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/babystats/internal/domain"
)

// Config holds all configuration values for the babystats CLI.
// Values are populated by Load from environment variables.
type Config struct {
	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// Location is the zone log timestamps are converted to before grouping
	// by day. Set BABYSTATS_TZ to an IANA name; defaults to the system zone.
	Location *time.Location

	// Strict aborts a run on the first undecodable row instead of skipping it.
	Strict bool

	// DatabaseURL is the Postgres connection string. Only the import command needs it.
	DatabaseURL string

	// Chart holds the charting service credentials. Only the chart command needs them.
	Chart ChartConfig

	// Analysis holds the tunable aggregation parameters.
	Analysis Analysis
}

// ChartConfig is the endpoint and credentials of the charting service.
type ChartConfig struct {
	Endpoint string
	Username string
	APIKey   string
}

// Analysis holds the aggregation parameters that may be overridden by the
// YAML file named in BABYSTATS_ANALYSIS_FILE.
type Analysis struct {
	// WindowDays is the moving mean window. Defaults to 5.
	WindowDays int `yaml:"window_days"`

	// WakeupMaxGapMinutes is the longest awake gap that still continues a night.
	// Defaults to 90.
	WakeupMaxGapMinutes int `yaml:"wakeup_max_gap_minutes"`

	// WakeupCutoffHour is the hour of day after which a sleep ends the night.
	// Defaults to 10.
	WakeupCutoffHour int `yaml:"wakeup_cutoff_hour"`
}

// WakeupMaxGap returns WakeupMaxGapMinutes as a duration.
func (a Analysis) WakeupMaxGap() time.Duration {
	return time.Duration(a.WakeupMaxGapMinutes) * time.Minute
}

// DefaultAnalysis returns the parameters used when no analysis file is given.
func DefaultAnalysis() Analysis {
	return Analysis{WindowDays: 5, WakeupMaxGapMinutes: 90, WakeupCutoffHour: 10}
}

// Load reads an optional .env file from the working directory, then reads
// configuration from environment variables and returns a Config.
// Returns an error naming the variable for any value that fails to parse.
func Load() (Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Chart: ChartConfig{
			Endpoint: os.Getenv("CHART_ENDPOINT"),
			Username: os.Getenv("CHART_USERNAME"),
			APIKey:   os.Getenv("CHART_API_KEY"),
		},
	}

	var errs []error

	loc, err := time.LoadLocation(getEnv("BABYSTATS_TZ", "Local"))
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: BABYSTATS_TZ: %v", domain.ErrValidation, err))
	}
	cfg.Location = loc

	cfg.Strict, err = strconv.ParseBool(getEnv("BABYSTATS_STRICT", "false"))
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: BABYSTATS_STRICT: %v", domain.ErrValidation, err))
	}

	cfg.Analysis, err = LoadAnalysis(os.Getenv("BABYSTATS_ANALYSIS_FILE"))
	if err != nil {
		errs = append(errs, fmt.Errorf("BABYSTATS_ANALYSIS_FILE: %w", err))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// LoadAnalysis reads analysis parameters from the YAML file at path. Keys
// absent from the file keep their defaults. An empty path returns the defaults.
func LoadAnalysis(path string) (Analysis, error) {
	a := DefaultAnalysis()
	if path == "" {
		return a, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Analysis{}, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &a); err != nil {
		return Analysis{}, fmt.Errorf("%w: parse %s: %v", domain.ErrValidation, path, err)
	}
	if err := a.validate(); err != nil {
		return Analysis{}, err
	}
	return a, nil
}

func (a Analysis) validate() error {
	var bad []string
	if a.WindowDays < 1 {
		bad = append(bad, "window_days must be at least 1")
	}
	if a.WakeupMaxGapMinutes < 0 {
		bad = append(bad, "wakeup_max_gap_minutes must not be negative")
	}
	if a.WakeupCutoffHour < 0 || a.WakeupCutoffHour > 23 {
		bad = append(bad, "wakeup_cutoff_hour must be between 0 and 23")
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(bad, "; "))
	}
	return nil
}

// RequireDatabase returns an error if DATABASE_URL is not set.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("required environment variables not set: DATABASE_URL")
	}
	return nil
}

// RequireChart returns an error listing any chart variables that are not set.
func (c Config) RequireChart() error {
	var missing []string
	if c.Chart.Endpoint == "" {
		missing = append(missing, "CHART_ENDPOINT")
	}
	if c.Chart.Username == "" {
		missing = append(missing, "CHART_USERNAME")
	}
	if c.Chart.APIKey == "" {
		missing = append(missing, "CHART_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
