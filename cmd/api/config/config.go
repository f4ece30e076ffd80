package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port           string
	AllowedOrigins string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret string

	OpenAIAPIKey string
	OpenAIModel  string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	StripeSecretKey     string
	StripeWebhookSecret string
	CheckoutSuccessURL  string
	CheckoutCancelURL   string

	FreeWeeklyAnalyses int
	QuotaWindow        time.Duration
}

// Load reads configuration from the environment. SendGrid and Stripe keys
// are optional; the corresponding features degrade to disabled when absent.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "5000"),
		AllowedOrigins: getenv("ALLOWED_ORIGINS", "*"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getenv("DB_PORT", "5432"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getenv("OPENAI_MODEL", "gpt-3.5-turbo"),

		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		SendGridFromEmail: getenv("SENDGRID_FROM_EMAIL", "noreply@dreamlog.app"),
		SendGridFromName:  getenv("SENDGRID_FROM_NAME", "Dreamlog"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		CheckoutSuccessURL:  getenv("CHECKOUT_SUCCESS_URL", "https://dreamlog.app/upgrade/success?session_id={CHECKOUT_SESSION_ID}"),
		CheckoutCancelURL:   getenv("CHECKOUT_CANCEL_URL", "https://dreamlog.app/upgrade/cancel"),

		FreeWeeklyAnalyses: 1,
		QuotaWindow:        7 * 24 * time.Hour,
	}

	required := map[string]string{
		"DB_HOST":        cfg.DBHost,
		"DB_USER":        cfg.DBUser,
		"DB_NAME":        cfg.DBName,
		"JWT_SECRET":     cfg.JWTSecret,
		"OPENAI_API_KEY": cfg.OpenAIAPIKey,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable: %s", name)
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
