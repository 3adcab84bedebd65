// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the service.
type Config struct {
	Port      string
	AppEnv    string
	JWTSecret string

	// Admin credentials for the panel login. Single-admin deployment;
	// there is no user store.
	AdminUsername string
	AdminPassword string

	// Object storage (S3-compatible: MinIO locally, AWS S3 in production)
	StorageEndpoint   string
	StorageAccessKey  string
	StorageSecretKey  string
	StorageBucket     string
	StorageRegion     string
	StorageUseSSL     bool
	StoragePublicBase string // optional CDN base URL; empty means the S3 virtual-hosted URL

	// Google Analytics reporting
	AnalyticsPropertyID      string
	AnalyticsCredentialsFile string
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		AppEnv:    getEnv("APP_ENV", "development"),
		JWTSecret: getEnv("JWT_SECRET", "change_me_in_production"),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		StorageEndpoint:   getEnv("STORAGE_ENDPOINT", "s3.amazonaws.com"),
		StorageAccessKey:  getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey:  getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:     getEnv("STORAGE_BUCKET", ""),
		StorageRegion:     getEnv("STORAGE_REGION", "ap-southeast-1"),
		StorageUseSSL:     getEnv("STORAGE_USE_SSL", "true") == "true",
		StoragePublicBase: getEnv("STORAGE_PUBLIC_BASE", ""),

		AnalyticsPropertyID:      getEnv("GA_PROPERTY_ID", ""),
		AnalyticsCredentialsFile: getEnv("GA_CREDENTIALS_FILE", ""),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// StorageConfigured reports whether object storage credentials are present.
// When false, storage-backed features degrade to empty results instead of
// failing the whole application.
func (c *Config) StorageConfigured() bool {
	return c.StorageAccessKey != "" && c.StorageSecretKey != "" && c.StorageBucket != ""
}

// AnalyticsConfigured reports whether the reporting provider can be wired.
func (c *Config) AnalyticsConfigured() bool {
	return c.AnalyticsPropertyID != "" && c.AnalyticsCredentialsFile != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
