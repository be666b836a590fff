package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string
	LogLevel   string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Recurring scrape schedule.
	ScrapeInterval time.Duration
	ScrapeLimit    int
	PageDelay      time.Duration

	// Render-to-markdown backend. The strategy is enabled only when both
	// the account ID and the token are present.
	RenderAPIBaseURL string
	RenderAccountID  string
	RenderAPIToken   string

	// Excerpt-extraction backend. Enabled only when the key is present.
	ExcerptAPIBaseURL string
	ExcerptAPIKey     string

	ExternalIDMinLength int

	ExtractTimeout  time.Duration
	PageLoadTimeout time.Duration
	WorkerPoll      time.Duration
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "user"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "password"),
		PostgresDB:       getEnv("POSTGRES_DB", "feed_ingest"),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvAsInt("REDIS_DB", 0),

		ScrapeInterval: getEnvAsDuration("SCRAPE_INTERVAL_MINUTES", 360) * time.Minute,
		ScrapeLimit:    getEnvAsInt("SCRAPE_LIMIT", 1000),
		PageDelay:      getEnvAsDuration("SCRAPE_PAGE_DELAY_SECONDS", 60) * time.Second,

		RenderAPIBaseURL: getEnv("RENDER_API_BASE_URL", "https://api.cloudflare.com/client/v4"),
		RenderAccountID:  getEnv("RENDER_ACCOUNT_ID", ""),
		RenderAPIToken:   getEnv("RENDER_API_TOKEN", ""),

		ExcerptAPIBaseURL: getEnv("EXCERPT_API_BASE_URL", "https://api.parallel.ai"),
		ExcerptAPIKey:     getEnv("EXCERPT_API_KEY", ""),

		ExternalIDMinLength: getEnvAsInt("EXTERNAL_ID_MIN_LENGTH", 12),

		ExtractTimeout:  getEnvAsDuration("EXTRACT_TIMEOUT_SECONDS", 30) * time.Second,
		PageLoadTimeout: getEnvAsDuration("PAGE_LOAD_TIMEOUT_SECONDS", 60) * time.Second,
		WorkerPoll:      getEnvAsDuration("WORKER_POLL_SECONDS", 5) * time.Second,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback int) time.Duration {
	return time.Duration(getEnvAsInt(key, fallback))
}
