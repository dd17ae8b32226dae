package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the dashboard
type Config struct {
	// Server configuration
	Port      string
	Env       string
	LogFormat string

	// UniSat indexer configuration
	UnisatAPIKey         string
	UnisatBaseURL        string
	UnisatTicker         string
	UnisatRequestTimeout time.Duration

	// History pagination
	HistoryPageSize int
	HistoryMaxPages int

	// HistoryFetchTimeout bounds one API request's upstream walk
	HistoryFetchTimeout time.Duration

	// TimeFramesPath optionally points at a YAML file of time frame presets
	TimeFramesPath string

	// HTTP surface
	AllowedOrigins     []string
	DashboardJWTSecret string
	RateLimitRPS       int
	RateLimitBurst     int

	// TrustProxyHeaders makes the rate limiter key on X-Forwarded-For /
	// X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxyHeaders bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		LogFormat:            getEnv("LOG_FORMAT", ""),
		UnisatAPIKey:         getEnv("UNISAT_API_KEY", ""),
		UnisatBaseURL:        getEnv("UNISAT_BASE_URL", "https://open-api.unisat.io/v1/indexer/brc20"),
		UnisatTicker:         getEnv("UNISAT_TICKER", "TRAC"),
		UnisatRequestTimeout: getEnvAsDuration("UNISAT_REQUEST_TIMEOUT", 30*time.Second),
		HistoryPageSize:      getEnvAsInt("HISTORY_PAGE_SIZE", 100),
		HistoryMaxPages:      getEnvAsInt("HISTORY_MAX_PAGES", 1000),
		HistoryFetchTimeout:  getEnvAsDuration("HISTORY_FETCH_TIMEOUT", 2*time.Minute),
		TimeFramesPath:       getEnv("TIMEFRAMES_CONFIG_PATH", ""),
		AllowedOrigins:       getEnvAsSlice("ALLOWED_ORIGINS", []string{"http://localhost:5173"}, ","),
		DashboardJWTSecret:   getEnv("DASHBOARD_JWT_SECRET", ""),
		RateLimitRPS:         getEnvAsInt("RATE_LIMIT_RPS", 100),
		RateLimitBurst:       getEnvAsInt("RATE_LIMIT_BURST", 20),
		TrustProxyHeaders:    getEnvAsBool("TRUST_PROXY_HEADERS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present
func (c *Config) Validate() error {
	if c.UnisatAPIKey == "" {
		return fmt.Errorf("UNISAT_API_KEY is required")
	}

	if c.UnisatTicker == "" {
		return fmt.Errorf("UNISAT_TICKER must not be empty")
	}

	if c.HistoryPageSize <= 0 {
		return fmt.Errorf("HISTORY_PAGE_SIZE must be positive")
	}

	if c.HistoryMaxPages <= 0 {
		return fmt.Errorf("HISTORY_MAX_PAGES must be positive")
	}

	if c.UnisatRequestTimeout <= 0 {
		return fmt.Errorf("UNISAT_REQUEST_TIMEOUT must be positive")
	}

	if c.HistoryFetchTimeout <= 0 {
		return fmt.Errorf("HISTORY_FETCH_TIMEOUT must be positive")
	}

	if c.DashboardJWTSecret != "" && len(c.DashboardJWTSecret) < 32 {
		return fmt.Errorf("DASHBOARD_JWT_SECRET must be at least 32 characters long")
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	return nil
}

// AuthEnabled reports whether the dashboard API requires a bearer token
func (c *Config) AuthEnabled() bool {
	return c.DashboardJWTSecret != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go duration strings ("45s") or bare seconds ("45")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string, sep string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
