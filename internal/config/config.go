package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramBotToken string
	PostgreDSN       string
	DataFile         string
	FaceAPIURL       string
	Port             string
	LogLevel         string
}

func Load() (*Config, error) {
	// A missing .env file is fine; environment variables may be set directly
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		PostgreDSN:       os.Getenv("POSTGRE_DSN"),
		DataFile:         getEnvOrDefault("DATA_FILE", "data/users.json"),
		FaceAPIURL:       getEnvOrDefault("FACE_API_URL", "https://thispersondoesnotexist.com"),
		Port:             getEnvOrDefault("PORT", "8080"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("required environment variable TELEGRAM_BOT_TOKEN is not set")
	}
	return nil
}

// HasDatabaseConfig reports whether a Postgres store should be used instead of
// the JSON file store.
func (c *Config) HasDatabaseConfig() bool {
	return c.PostgreDSN != ""
}

// getEnvOrDefault returns the environment variable value or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
