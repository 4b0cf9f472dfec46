package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the application reads from the
// environment. DBDSN is optional: when empty the server runs against the
// in-memory store with seeded sample data.
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	DBDSN     string
	JWTSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		DBDSN:     os.Getenv("DB_DSN"),
		JWTSecret: getEnv("JWT_SECRET", "pos-api-dev-secret"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
