package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all settings for the fetch process, populated from
// environment variables (optionally seeded from a .env file).
type Config struct {
	// CDS web API endpoint and credentials.
	APIURL string
	APIKey string

	// Directory downloaded artifacts are written to.
	TargetDir string

	// Health/metrics listener address; empty disables the listener.
	HTTPAddr string

	LogLevel  string
	LogFormat string

	// Per-HTTP-call timeout against the archive.
	RequestTimeout time.Duration

	// Task polling cadence: initial interval, grown 1.5x up to the cap.
	PollInterval    time.Duration
	PollMaxInterval time.Duration

	// Client-side throttle for archive API calls.
	RateLimit float64 // calls per second
	RateBurst int
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored if present.
func Load() (*Config, error) {
	// Best effort; a missing .env file is not an error.
	_ = godotenv.Load()

	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	pollInterval, err := parseDuration("POLL_INTERVAL", "2s")
	if err != nil {
		return nil, err
	}
	pollMaxInterval, err := parseDuration("POLL_MAX_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}
	rateLimit, err := parseFloat("RATE_LIMIT", 2)
	if err != nil {
		return nil, err
	}
	rateBurst, err := parseInt("RATE_BURST", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIURL:          envOrDefault("CDS_API_URL", "https://cds.climate.copernicus.eu/api"),
		APIKey:          os.Getenv("CDS_API_KEY"),
		TargetDir:       envOrDefault("CDS_TARGET_DIR", "."),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		RequestTimeout:  requestTimeout,
		PollInterval:    pollInterval,
		PollMaxInterval: pollMaxInterval,
		RateLimit:       rateLimit,
		RateBurst:       rateBurst,
	}

	if cfg.APIURL == "" {
		return nil, errors.New("CDS_API_URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("CDS_API_KEY is required")
	}
	if cfg.PollMaxInterval < cfg.PollInterval {
		return nil, errors.New("POLL_MAX_INTERVAL must not be shorter than POLL_INTERVAL")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
