package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer string // Issuer claim for tokens (default: rolegate)

	SigningKeySeed string // Optional: 32-byte Ed25519 seed, hex-encoded; ephemeral key when empty
	KeyID          string // Optional: kid header on issued tokens (default: rolegate-1)
	Pepper         string // Required in prod: server-side secret mixed into password hashes

	DatabaseFile string // Optional: path to SQLite database file (default: ./rolegate.db)

	DefaultRoleName string // Optional: role auto-assigned at registration (default: USER)
	AdminRoleName   string // Optional: role gating the admin surface (default: ADMIN)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 168h)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:               getEnvOrDefault("ROLEGATE_ISSUER", "rolegate"),
		SigningKeySeed:       os.Getenv("ROLEGATE_SIGNING_KEY_SEED"),
		KeyID:                getEnvOrDefault("ROLEGATE_KEY_ID", "rolegate-1"),
		Pepper:               os.Getenv("ROLEGATE_PEPPER"),
		DatabaseFile:         getEnvOrDefault("ROLEGATE_DATABASE_FILE", "rolegate.db"),
		DefaultRoleName:      getEnvOrDefault("ROLEGATE_DEFAULT_ROLE", "USER"),
		AdminRoleName:        getEnvOrDefault("ROLEGATE_ADMIN_ROLE", "ADMIN"),
		AccessTokenTTL:       getEnvDurationOrDefault("ROLEGATE_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:      getEnvDurationOrDefault("ROLEGATE_REFRESH_TOKEN_TTL", 7*24*time.Hour),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
