package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI            string
	DBName              string
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	AppBaseURL          string
	Currency            string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:            requireEnv("MONGO_URI"),
		DBName:              getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:           requireEnv("JWT_SECRET"),
		StripeSecretKey:     requireEnv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: requireEnv("STRIPE_WEBHOOK_SECRET"),
		AppBaseURL:          strings.TrimRight(getEnvOrDefault("APP_BASE_URL", "http://localhost:3000"), "/"),
		Currency:            strings.ToLower(getEnvOrDefault("CURRENCY", "usd")),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// requireEnv terminates the process when a key the payment or data path
// cannot run without is missing.
func requireEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		log.Fatalf("ENV %s is required", key)
	}
	return value
}
