package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DataDir string

	TaxRate  float64
	TokenTTL time.Duration

	InvoiceSenderInterval time.Duration
	TokensCleanupInterval time.Duration
	LogsArchiverInterval  time.Duration

	StripeAPIKey string

	MailgunAPIUser string
	MailgunAPIKey  string
	MailDomain     string
	MailFrom       string

	KafkaBrokers []string

	LogLevel  string
	LogTarget string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		Port:    envDefault("PORT", "8080"),
		DataDir: envDefault("DATA_DIR", ".data"),

		TaxRate:  envFloatDefault("TAX_RATE", 0.23),
		TokenTTL: envDurationDefault("TOKEN_TTL", time.Hour),

		InvoiceSenderInterval: envDurationDefault("INVOICE_SENDER_INTERVAL", 10*time.Second),
		TokensCleanupInterval: envDurationDefault("TOKENS_CLEANUP_INTERVAL", 10*time.Second),
		LogsArchiverInterval:  envDurationDefault("LOGS_ARCHIVER_INTERVAL", 10*time.Minute),

		StripeAPIKey: os.Getenv("STRIPE_API_KEY"),

		MailgunAPIUser: envDefault("MAILGUN_API_USER", "api"),
		MailgunAPIKey:  os.Getenv("MAILGUN_API_KEY"),
		MailDomain:     os.Getenv("MAIL_SOURCE_DOMAIN"),
		MailFrom:       envDefault("MAIL_FROM", "bestPizza <bestPizza@mailgun.net>"),

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),

		LogLevel:  envDefault("LOG_LEVEL", "info"),
		LogTarget: envDefault("LOG_TARGET", "both"),
	}

	return config, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envFloatDefault(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDurationDefault(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
