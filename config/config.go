package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds the environment-level settings. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	Port           string
	DBURL          string
	DBName         string
	SessionSecret  string
	SendGridAPIKey string
	FromEmail      string
	Env            string
}

// Load reads the configuration. A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getenv("PORT", "3000"),
		DBURL:          getenv("DB_URL", "mongodb://localhost:27017"),
		DBName:         getenv("DB_NAME", "campgrounds"),
		SessionSecret:  getenv("SESSION_SECRET", "thisshouldbeabettersecret"),
		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		FromEmail:      getenv("FROM_EMAIL", "no-reply@campgrounds.local"),
		Env:            getenv("APP_ENV", "development"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
