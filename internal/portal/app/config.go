package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret string // Required: shared secret for verifying portal SSO tokens
	JWTIssuer string // Required: issuer claim expected on portal tokens

	DatabaseFile  string // Optional: path to SQLite database file (default: ./portal.db)
	PepperFile    string // Optional: path to pepper file for code hashing (default: ./pepper)
	MasterKeyPath string // Optional: path to master encryption key file for plaintext retention

	SendgridAPIKey string // Optional: when empty, mail goes to the console mailer
	MailFromName   string // Optional: From display name (default: Family Portal)
	MailFromEmail  string // Optional: From address (default: no-reply@localhost)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret: os.Getenv("PORTAL_JWT_SECRET"),
		JWTIssuer: getEnvOrDefault("PORTAL_JWT_ISSUER", "family-portal"),

		DatabaseFile:  getEnvOrDefault("PORTAL_DATABASE_FILE", "portal.db"),
		PepperFile:    getEnvOrDefault("PORTAL_PEPPER_FILE", "pepper"),
		MasterKeyPath: os.Getenv("PORTAL_MASTER_KEY_PATH"),

		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFromName:   getEnvOrDefault("MAIL_FROM_NAME", "Family Portal"),
		MailFromEmail:  getEnvOrDefault("MAIL_FROM_EMAIL", "no-reply@localhost"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
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
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return defaultValue
}
