package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Report archive backends.
const (
	ArchiveNone     = "none"
	ArchiveSupabase = "supabase"
	ArchiveMinIO    = "minio"
)

type Config struct {
	// Analytics backend
	AnalyticsAPIBaseURL string
	AnalyticsAPIKey     string
	AnalyticsTimeout    time.Duration

	// Status polling
	PollInitialDelay time.Duration
	PollInterval     time.Duration
	PollBackoffStep  time.Duration
	PollMaxBackoff   time.Duration
	PollMaxRetries   int

	// Sessions untouched for this long are dropped; 0 keeps them forever.
	SessionTTL time.Duration

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string
	SupabaseEventsTable    string

	// MinIO
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	ArchiveBackend string

	// Database
	DatabaseURL string

	// Server
	Port        string
	Environment string
	BaseURL     string
	LogLevel    string
}

// LoadDotEnv reads variables from the given files, or .env, without
// overriding the environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

func Load() (*Config, error) {
	var errs []error
	duration := func(key string, def time.Duration) time.Duration {
		d, err := getDuration(key, def)
		errs = append(errs, err)
		return d
	}

	cfg := &Config{
		AnalyticsAPIBaseURL: getEnv("ANALYTICS_API_BASE_URL", "http://localhost:8000"),
		AnalyticsAPIKey:     getEnv("ANALYTICS_API_KEY", ""),
		AnalyticsTimeout:    duration("ANALYTICS_TIMEOUT", 30*time.Second),

		PollInitialDelay: duration("POLL_INITIAL_DELAY", 1*time.Second),
		PollInterval:     duration("POLL_INTERVAL", 5*time.Second),
		PollBackoffStep:  duration("POLL_BACKOFF_STEP", 5*time.Second),
		PollMaxBackoff:   duration("POLL_MAX_BACKOFF", 20*time.Second),

		SessionTTL: duration("SESSION_TTL", 2*time.Hour),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "analysis-reports"),
		SupabaseEventsTable:    getEnv("SUPABASE_EVENTS_TABLE", "analysis_events"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "analysis-reports"),

		ArchiveBackend: strings.ToLower(getEnv("REPORT_ARCHIVE", ArchiveNone)),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	var err error
	cfg.PollMaxRetries, err = getInt("POLL_MAX_RETRIES", 50)
	errs = append(errs, err)
	cfg.MinIOUseSSL, err = getBool("MINIO_USE_SSL", true)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AnalyticsAPIBaseURL == "" {
		return fmt.Errorf("ANALYTICS_API_BASE_URL is required")
	}
	if c.PollMaxRetries < 1 {
		return fmt.Errorf("POLL_MAX_RETRIES must be at least 1")
	}
	if c.PollBackoffStep > c.PollMaxBackoff {
		return fmt.Errorf("POLL_BACKOFF_STEP must not exceed POLL_MAX_BACKOFF")
	}

	switch c.ArchiveBackend {
	case ArchiveNone, "":
	case ArchiveSupabase:
		if c.SupabaseURL == "" || c.SupabasePublishableKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY are required for the supabase report archive")
		}
	case ArchiveMinIO:
		if c.MinIOEndpoint == "" || c.MinIOAccessKey == "" || c.MinIOSecretKey == "" {
			return fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio report archive")
		}
	default:
		return fmt.Errorf("REPORT_ARCHIVE must be one of none, supabase, minio; got %q", c.ArchiveBackend)
	}
	return nil
}

// ValidateServer adds the settings only the dashboard server needs.
func (c *Config) ValidateServer() error {
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	return nil
}

// SupabaseEnabled reports whether Supabase credentials are configured.
func (c *Config) SupabaseEnabled() bool {
	return c.SupabaseURL != "" && c.SupabasePublishableKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
