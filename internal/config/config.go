package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration, loaded from environment
// variables with defaults that suit local development.
type Config struct {
	Port     int
	LogLevel string

	// Persistence
	DatabaseURL   string
	MigrateOnBoot bool

	// LeadBackend selects where lead submissions go: "postgres" for the
	// self-hosted pool, "supabase" for the hosted project.
	LeadBackend string

	// OnBackendUnavailable is the landing-page fallback policy:
	// "mask_as_success" or "surface_error".
	OnBackendUnavailable string

	// Supabase (hosted backend + identity provider)
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string

	// RabbitMQ (lead notification events)
	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	// SMTP (sales-team notifications)
	MailHost        string
	MailPort        int
	MailUser        string
	MailPass        string
	MailFrom        string
	SalesNotifyMail string
}

const (
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		MigrateOnBoot: getEnvBool("MIGRATE_ON_BOOT", false),

		LeadBackend:          getEnv("LEAD_BACKEND", BackendPostgres),
		OnBackendUnavailable: getEnv("ON_BACKEND_UNAVAILABLE", "mask_as_success"),

		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),

		RabbitUser: getEnv("RABBITMQ_USER", "guest"),
		RabbitPass: getEnv("RABBITMQ_PASS", "guest"),
		RabbitHost: getEnv("RABBITMQ_HOST", "localhost"),
		RabbitPort: getEnv("RABBITMQ_PORT", "5672"),

		MailHost:        os.Getenv("MAIL_HOST"),
		MailPort:        getEnvInt("MAIL_PORT", 587),
		MailUser:        os.Getenv("MAIL_USER"),
		MailPass:        os.Getenv("MAIL_PASS"),
		MailFrom:        getEnv("MAIL_FROM", "no-reply@restoflow.fr"),
		SalesNotifyMail: getEnv("SALES_NOTIFY_EMAIL", "commercial@restoflow.fr"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
