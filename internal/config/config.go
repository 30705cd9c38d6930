package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	Server   ServerConfig
	CORS     CORSConfig
	Mail     MailConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// JWTConfig holds one signing secret per token purpose so a leaked
// secret cannot be used to forge tokens of another purpose.
type JWTConfig struct {
	AccessSecret            string
	EmailVerificationSecret string
	PasswordResetSecret     string
	AccessTokenExpiry       time.Duration
	EmailVerificationExpiry time.Duration
	PasswordResetExpiry     time.Duration
}

type ServerConfig struct {
	Port      string
	GinMode   string
	ClientURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "marketplace"),
		},
		JWT: JWTConfig{
			AccessSecret:            getEnv("JWT_ACCESS_SECRET", "your-access-secret-key"),
			EmailVerificationSecret: getEnv("JWT_EMAIL_VERIFICATION_SECRET", "your-email-verification-secret-key"),
			PasswordResetSecret:     getEnv("JWT_PASSWORD_RESET_SECRET", "your-password-reset-secret-key"),
			AccessTokenExpiry:       parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			EmailVerificationExpiry: parseDuration(getEnv("EMAIL_VERIFICATION_EXPIRY", "24h"), 24*time.Hour),
			PasswordResetExpiry:     parseDuration(getEnv("PASSWORD_RESET_EXPIRY", "15m"), 15*time.Minute),
		},
		Server: ServerConfig{
			Port:      getEnv("PORT", "8080"),
			GinMode:   getEnv("GIN_MODE", "debug"),
			ClientURL: getEnv("CLIENT_URL", "http://localhost:3000"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "smtp.sendgrid.net"),
			Port:     parseInt(getEnv("SMTP_PORT", "587"), 587),
			Username: getEnv("SMTP_USERNAME", "apikey"),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@marketplace.local"),
		},
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return defaultValue
	}
	return duration
}

func parseInt(s string, defaultValue int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Printf("Warning: Invalid number '%s', using default\n", s)
		return defaultValue
	}
	return n
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
