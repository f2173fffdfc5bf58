package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         string
	TinkClientID      string
	TinkClientSecret  string
	TinkWebhookSecret string
	TinkRedirectURI   string
	TinkMarket        string
	TinkLocale        string
	TinkTestMode      bool
	IsDemo            bool
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TinkClientID:      getEnv("TINK_CLIENT_ID", ""),
		TinkClientSecret:  getEnv("TINK_CLIENT_SECRET", ""),
		TinkWebhookSecret: getEnv("TINK_WEBHOOK_SECRET", ""),
		TinkRedirectURI:   getEnv("TINK_REDIRECT_URI", "https://centimo.app/bank/callback"),
		TinkMarket:        getEnv("TINK_MARKET", "ES"),
		TinkLocale:        getEnv("TINK_LOCALE", "es_ES"),
		TinkTestMode:      getEnv("TINK_TEST_MODE", "true") != "false",
		IsDemo:            getEnv("DEMO_MODE", "false") == "true",
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.TinkClientID == "" || cfg.TinkClientSecret == "" {
		log.Fatal("TINK_CLIENT_ID and TINK_CLIENT_SECRET are required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
