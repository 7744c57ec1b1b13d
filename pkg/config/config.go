package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL string
	JWTSecret   string
	Port        string
	Environment string

	// Live verification against the regulator website
	SEBIBaseURL        string
	LiveVerifyTimeout  time.Duration
	LiveVerifyWorkers  int
	RequestsPerSecond  int
	MaxCandidatePages  int

	// AI classification oracle
	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	// Registry snapshot
	RegistrySnapshotPath string

	// Verification result cache
	RedisAddr string
	CacheTTL  time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Security configuration
	AllowedOrigins  string
	TrustedProxies  string
	EnableRateLimit bool
	MaxRequestSize  int64
}

// New creates a new configuration instance from environment variables
func New() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		SEBIBaseURL:       getEnv("SEBI_BASE_URL", "https://www.sebi.gov.in"),
		LiveVerifyTimeout: getEnvAsDuration("LIVE_VERIFY_TIMEOUT", 10*time.Second),
		LiveVerifyWorkers: getEnvAsInt("LIVE_VERIFY_WORKERS", 4),
		RequestsPerSecond: getEnvAsInt("SCRAPE_REQUESTS_PER_SECOND", 2),
		MaxCandidatePages: getEnvAsInt("MAX_CANDIDATE_PAGES", 10),

		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   getEnv("GROQ_MODEL", "mixtral-8x7b-32768"),

		RegistrySnapshotPath: getEnv("REGISTRY_SNAPSHOT_PATH", "data/sebi_advisors.json"),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getEnvAsDuration("CACHE_TTL", 15*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		AllowedOrigins:  getEnv("ALLOWED_ORIGINS", ""),
		TrustedProxies:  getEnv("TRUSTED_PROXIES", ""),
		EnableRateLimit: getEnv("ENABLE_RATE_LIMIT", "true") == "true",
		MaxRequestSize:  getEnvAsInt64("MAX_REQUEST_SIZE", 10*1024*1024), // 10MB default
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasGroqCredentials returns true if the AI oracle is configured
func (c *Config) HasGroqCredentials() bool {
	return c.GroqAPIKey != ""
}

// HasRedis returns true if the verification result cache is configured
func (c *Config) HasRedis() bool {
	return c.RedisAddr != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetAllowedOrigins returns a slice of allowed CORS origins
func (c *Config) GetAllowedOrigins() []string {
	if c.AllowedOrigins == "" {
		return []string{}
	}
	return strings.Split(c.AllowedOrigins, ",")
}

// GetTrustedProxies returns a slice of trusted proxy IPs
func (c *Config) GetTrustedProxies() []string {
	if c.TrustedProxies == "" {
		return []string{}
	}
	return strings.Split(c.TrustedProxies, ",")
}
