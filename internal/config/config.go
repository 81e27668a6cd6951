package config

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port      string
	JWTSecret string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	CORSOrigin string
}

func Load() Config {
	return Config{
		Port:       getenv("PORT", "8080"),
		JWTSecret:  getenv("JWT_SECRET", "threadboard-dev-secret"),
		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "threadboard"),
		DBPassword: getenv("DB_PASSWORD", "threadboard"),
		DBName:     getenv("DB_NAME", "threadboard"),
		DBSSLMode:  getenv("DB_SSLMODE", "disable"),
		CORSOrigin: getenv("CORS_ORIGIN", "*"),
	}
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
