package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// API configuration
	MainAPIEndpoint string
	RequestTimeout  time.Duration

	// Session configuration
	CredentialsPath string

	// Listing configuration
	PageSize      int
	AdminPageSize int

	// Environment
	Environment string
}

func LoadConfig() *Config {
	// Optional .env file; real env vars take precedence.
	_ = godotenv.Load()

	return &Config{
		// API
		MainAPIEndpoint: getEnv("MAIN_API_ENDPOINT", "http://localhost:8080"),
		RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", "60s"),

		// Session
		CredentialsPath: getEnv("CREDENTIALS_PATH", defaultCredentialsPath()),

		// Listing
		PageSize:      getEnvAsInt("PAGE_SIZE", 6),
		AdminPageSize: getEnvAsInt("ADMIN_PAGE_SIZE", 10),

		// Environment
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

// defaultCredentialsPath is the well-known storage slot for the persisted
// admin credential.
func defaultCredentialsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "ticket-client", "credentials.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
