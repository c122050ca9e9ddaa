package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	N8N       N8NConfig
	Database  DatabaseConfig
}

// N8NConfig holds the signing-automation gateway configuration
type N8NConfig struct {
	// BaseURL is the n8n webhook prefix all outbound notifications are
	// posted under (create-template, document-generate, ...).
	BaseURL string

	// WebhookSecret, when set, enables HMAC verification of inbound
	// callbacks on /api/webhook/*. Empty means callbacks are accepted
	// unverified, matching the legacy behavior.
	WebhookSecret string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Alter    bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3001"),
		JWTSecret: jwtSecret,
		N8N: N8NConfig{
			BaseURL:       getEnv("N8N_BASE_URL", "https://n8n.fortivautomation.cloud/webhook-test/prop-flow"),
			WebhookSecret: os.Getenv("N8N_WEBHOOK_SECRET"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "propflow"),
			Alter:    getEnv("DB_ALTER", "false") == "true",
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
