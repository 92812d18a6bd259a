package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env when GO_ENV is unset or "development".
// A missing .env file is not an error; the process environment still applies.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

type EnvironmentVariables struct {
	GO_ENV string
	PORT   int

	// Database
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string

	// JWT
	JWT_SECRET         string
	JWT_ISSUER         string
	JWT_EXPIRY         time.Duration
	JWT_REFRESH_EXPIRY time.Duration

	// Redis
	REDIS_URL string

	// HTTP
	ALLOWED_ORIGINS     string
	RATE_LIMIT_REQUESTS int
	RATE_LIMIT_WINDOW   time.Duration

	// AI inference (OpenAI-compatible endpoint)
	AI_API_KEY  string
	AI_BASE_URL string
	AI_MODEL    string
	AI_TIMEOUT  time.Duration

	// Object storage (DigitalOcean Spaces / S3)
	SPACES_ACCESS_KEY string
	SPACES_SECRET_KEY string
	SPACES_BUCKET     string
	SPACES_REGION     string
	SPACES_ENDPOINT   string
	SPACES_CDN_URL    string

	CRON_ENABLED       bool
	SEED_DEFAULT_USERS bool
}

// IsProduction reports whether GO_ENV is "production".
func (e *EnvironmentVariables) IsProduction() bool {
	return e.GO_ENV == "production"
}

// SpacesConfigured reports whether enough object storage settings are present to upload.
func (e *EnvironmentVariables) SpacesConfigured() bool {
	return e.SPACES_ACCESS_KEY != "" && e.SPACES_SECRET_KEY != "" && e.SPACES_BUCKET != ""
}

func Get() (*EnvironmentVariables, error) {
	return &EnvironmentVariables{
		GO_ENV: os.Getenv("GO_ENV"),
		PORT:   intOr("PORT", 8080),

		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      stringOr("DB_HOST", "localhost"),
		DB_PORT:      stringOr("DB_PORT", "5432"),
		DB_SSL_MODE:  stringOr("DB_SSL_MODE", "disable"),

		JWT_SECRET:         os.Getenv("JWT_SECRET"),
		JWT_ISSUER:         stringOr("JWT_ISSUER", "learnhub-api"),
		JWT_EXPIRY:         durationOr("JWT_EXPIRY", 24*time.Hour),
		JWT_REFRESH_EXPIRY: durationOr("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		REDIS_URL: stringOr("REDIS_URL", "redis://localhost:6379/0"),

		ALLOWED_ORIGINS:     stringOr("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		RATE_LIMIT_REQUESTS: intOr("RATE_LIMIT_REQUESTS", 100),
		RATE_LIMIT_WINDOW:   durationOr("RATE_LIMIT_WINDOW", time.Minute),

		AI_API_KEY:  os.Getenv("AI_API_KEY"),
		AI_BASE_URL: stringOr("AI_BASE_URL", "https://api.openai.com"),
		AI_MODEL:    stringOr("AI_MODEL", "gpt-4o"),
		AI_TIMEOUT:  durationOr("AI_TIMEOUT", 120*time.Second),

		SPACES_ACCESS_KEY: os.Getenv("SPACES_ACCESS_KEY"),
		SPACES_SECRET_KEY: os.Getenv("SPACES_SECRET_KEY"),
		SPACES_BUCKET:     os.Getenv("SPACES_BUCKET"),
		SPACES_REGION:     stringOr("SPACES_REGION", "blr1"),
		SPACES_ENDPOINT:   os.Getenv("SPACES_ENDPOINT"),
		SPACES_CDN_URL:    os.Getenv("SPACES_CDN_URL"),

		CRON_ENABLED:       boolOr("CRON_ENABLED", true),
		SEED_DEFAULT_USERS: boolOr("SEED_DEFAULT_USERS", true),
	}, nil
}

func stringOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intOr(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func boolOr(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
