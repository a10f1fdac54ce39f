package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotolab/roto-api/internal/logic"
)

type Config struct {
	// Server
	Port     int
	Env      string
	LogLevel string

	// CORS
	AllowedOrigins []string

	// Database URLs
	PostgresURL string
	RedisURL    string
	AutoMigrate bool

	// Worker pool
	WorkerCount int
	QueueSize   int
	JobTimeout  time.Duration

	// Analysis
	TopK              int
	TopN              int
	InvalidStatPolicy logic.InvalidStatPolicy
	WaiverPerCategory int
	ReportCacheTTL    time.Duration

	// Rate limiting
	RateLimitPerSecond int
	RateLimitBurst     int
}

// Load loads configuration from environment variables.
// It returns an error if critical configuration is missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnvInt("PORT", 8080),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AutoMigrate: getEnvBool("AUTO_MIGRATE", true),

		WorkerCount: getEnvInt("WORKER_COUNT", 4),
		QueueSize:   getEnvInt("QUEUE_SIZE", 1000),
		JobTimeout:  getEnvDuration("JOB_TIMEOUT", 30*time.Second),

		TopK:              getEnvInt("ANALYSIS_TOP_K", logic.DefaultTopK),
		TopN:              getEnvInt("ANALYSIS_TOP_N", logic.DefaultTopN),
		WaiverPerCategory: getEnvInt("WAIVER_TARGETS_PER_CATEGORY", logic.DefaultWaiverTargets),
		ReportCacheTTL:    getEnvDuration("REPORT_CACHE_TTL", 15*time.Minute),

		RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 50),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 100),
	}

	// CORS
	origins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000")
	rawOrigins := strings.Split(origins, ",")
	for _, o := range rawOrigins {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	policy, err := logic.ParsePolicy(getEnv("INVALID_STAT_POLICY", string(logic.PolicyFail)))
	if err != nil {
		return nil, fmt.Errorf("INVALID_STAT_POLICY: %w", err)
	}
	cfg.InvalidStatPolicy = policy

	if cfg.TopK < 0 {
		return nil, fmt.Errorf("ANALYSIS_TOP_K must not be negative, got %d", cfg.TopK)
	}

	// Critical configuration - fail if missing
	if cfg.PostgresURL, err = getEnvRequired("POSTGRES_URL"); err != nil {
		return nil, err
	}
	if cfg.RedisURL, err = getEnvRequired("REDIS_URL"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvRequired(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return "", fmt.Errorf("missing required environment variable: %s", key)
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
