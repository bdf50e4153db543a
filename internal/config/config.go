// Package config provides centralized configuration management for the
// noteledger server. It loads configuration from CLI flags and environment
// variables, validates required fields, and provides sensible defaults.
//
// CLI flags select the note backend and disable external services
// (--backend, --no-s3, --test). Environment variables provide secrets and
// service configuration.
package config

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kuitang/noteledger/internal/ratelimit"
)

const (
	defaultTigrisRegion = "auto"
)

// Note storage backends selectable with --backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	ListenAddr string
	BaseURL    string

	// Note storage
	Backend      string // "memory" or "sqlite"
	DatabasePath string // SQLite file path (sqlite backend only)
	MasterKey    string // 64 hex characters (32 bytes), required for sqlite

	// Rate limiting
	RateLimitConfig ratelimit.Config

	// Export storage (--no-s3 leaves exports disabled)
	NoS3               bool
	AWSEndpointS3      string // AWS_ENDPOINT_URL_S3
	AWSRegion          string // AWS_REGION
	AWSAccessKeyID     string // AWS_ACCESS_KEY_ID
	AWSSecretAccessKey string // AWS_SECRET_ACCESS_KEY
	AWSBucketName      string // BUCKET_NAME
	AWSPublicURL       string // S3_PUBLIC_URL (custom, not set by Tigris)
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// ParseFlags parses CLI flags and returns them. Call before LoadConfig.
// This registers and parses --backend, --no-s3, --test, and --addr flags.
func ParseFlags() (backend string, noS3 bool, addr string) {
	var testMode bool
	flag.StringVar(&backend, "backend", "", "Note storage backend: memory or sqlite (default memory, overrides BACKEND env var)")
	flag.BoolVar(&noS3, "no-s3", false, "Disable S3 exports (export endpoints report unavailable)")
	flag.BoolVar(&testMode, "test", false, "Shorthand for --backend=memory --no-s3")
	flag.StringVar(&addr, "addr", "", "Listen address (default :8080, overrides LISTEN_ADDR env var)")
	flag.Parse()

	if testMode {
		backend = BackendMemory
		noS3 = true
	}

	return backend, noS3, addr
}

// LoadConfig loads configuration from environment variables and CLI flag values.
// The backend and addr flags override the BACKEND and LISTEN_ADDR env vars when
// non-empty; noS3 disables the export endpoints.
func LoadConfig(backend string, noS3 bool, addr string) (*Config, error) {
	cfg := &Config{}

	cfg.NoS3 = noS3

	// Server settings
	cfg.ListenAddr = getEnvOrDefault("LISTEN_ADDR", ":8080")
	if addr != "" {
		cfg.ListenAddr = addr
	}
	cfg.BaseURL = strings.TrimSpace(os.Getenv("BASE_URL"))
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost" + cfg.ListenAddr
	}

	// Note storage
	cfg.Backend = getEnvOrDefault("BACKEND", BackendMemory)
	if backend != "" {
		cfg.Backend = backend
	}
	cfg.DatabasePath = getEnvOrDefault("DATABASE_PATH", "/data/notes.db")
	cfg.MasterKey = strings.TrimSpace(os.Getenv("MASTER_KEY"))

	// Rate limiting
	cfg.RateLimitConfig = ratelimit.Config{
		RPS:             parseFloat64OrDefault("RATE_LIMIT_RPS", 10),
		Burst:           parseIntOrDefault("RATE_LIMIT_BURST", 20),
		CleanupInterval: parseDurationOrDefault("RATE_LIMIT_CLEANUP_INTERVAL", time.Hour),
	}

	// S3/Tigris Storage (AWS_ env vars set automatically by `fly storage create`)
	cfg.AWSEndpointS3 = strings.TrimSpace(os.Getenv("AWS_ENDPOINT_URL_S3"))
	cfg.AWSRegion = getEnvOrDefault("AWS_REGION", defaultTigrisRegion)
	cfg.AWSAccessKeyID = strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID"))
	cfg.AWSSecretAccessKey = strings.TrimSpace(os.Getenv("AWS_SECRET_ACCESS_KEY"))
	cfg.AWSBucketName = strings.TrimSpace(os.Getenv("BUCKET_NAME"))
	cfg.AWSPublicURL = strings.TrimSpace(os.Getenv("S3_PUBLIC_URL"))
	if cfg.AWSPublicURL == "" && cfg.AWSEndpointS3 != "" && cfg.AWSBucketName != "" {
		cfg.AWSPublicURL = strings.TrimRight(cfg.AWSEndpointS3, "/") + "/" + cfg.AWSBucketName
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
// The sqlite backend needs a database path and master key; real S3 needs
// credentials unless --no-s3.
func (c *Config) Validate() error {
	var errs []string

	switch c.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, "DATABASE_PATH is required for the sqlite backend")
		}
		if c.MasterKey == "" {
			errs = append(errs, "MASTER_KEY is required for the sqlite backend (generate with: openssl rand -hex 32)")
		} else if !isHexKey(c.MasterKey) {
			errs = append(errs, "MASTER_KEY must be 64 hex characters (32 bytes)")
		}
	default:
		errs = append(errs, fmt.Sprintf("backend must be %q or %q, got %q", BackendMemory, BackendSQLite, c.Backend))
	}

	// S3/Tigris: require AWS credentials unless --no-s3
	if !c.NoS3 {
		if c.AWSEndpointS3 == "" {
			errs = append(errs, "AWS_ENDPOINT_URL_S3 is required (set env var or use --no-s3)")
		}
		if c.AWSBucketName == "" {
			errs = append(errs, "BUCKET_NAME is required (set env var or use --no-s3)")
		}
		if c.AWSAccessKeyID == "" {
			errs = append(errs, "AWS_ACCESS_KEY_ID is required (set env var or use --no-s3)")
		}
		if c.AWSSecretAccessKey == "" {
			errs = append(errs, "AWS_SECRET_ACCESS_KEY is required (set env var or use --no-s3)")
		}
	}

	// Validate rate limit config
	if c.RateLimitConfig.RPS <= 0 {
		errs = append(errs, "RATE_LIMIT_RPS must be positive")
	}
	if c.RateLimitConfig.Burst <= 0 {
		errs = append(errs, "RATE_LIMIT_BURST must be positive")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}

	return nil
}

// MasterKeyBytes decodes the configured master key. Call after Validate.
func (c *Config) MasterKeyBytes() ([]byte, error) {
	key, err := hex.DecodeString(c.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("MASTER_KEY is not valid hex: %w", err)
	}
	return key, nil
}

func isHexKey(s string) bool {
	if len(s) != 64 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// PrintStartupSummary prints a human-readable summary of the configuration to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "noteledger server starting...")

	// Backend
	if c.Backend == BackendSQLite {
		fmt.Fprintf(os.Stderr, "  Backend: sqlite (%s)\n", c.DatabasePath)
	} else {
		fmt.Fprintln(os.Stderr, "  Backend: memory")
	}

	// Exports
	if c.NoS3 {
		fmt.Fprintln(os.Stderr, "  Exports: disabled (--no-s3)")
	} else {
		fmt.Fprintf(os.Stderr, "  Exports: S3 (endpoint: %s, bucket: %s)\n", c.AWSEndpointS3, c.AWSBucketName)
	}

	// Listen address
	fmt.Fprintf(os.Stderr, "  Listen:  %s\n", c.ListenAddr)
	fmt.Fprintf(os.Stderr, "  Base:    %s\n", c.BaseURL)
	fmt.Fprintln(os.Stderr, "")
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// MustLoadConfig loads configuration and panics if validation fails.
// Use this in main() when you want the application to fail fast on bad config.
func MustLoadConfig(backend string, noS3 bool, addr string) *Config {
	cfg, err := LoadConfig(backend, noS3, addr)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			panic(fmt.Sprintf("Configuration validation failed:\n  - %s", strings.Join(validationErr.Errors, "\n  - ")))
		}
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	return cfg
}
