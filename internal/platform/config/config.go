package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	StorageDriver string // postgres | memory

	JWTSecret string
	JWTIssuer string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateLimit     string // ulule/limiter formatted rate, e.g. "100-M"

	// Ledger
	SchoolName          string
	CurrencyCode        string
	InvoiceDueDays      int
	PaymentInstructions string

	// Reminder scheduler
	ReminderCron    string
	ReminderLockTTL time.Duration
	ReminderTimeout time.Duration

	// Messaging
	SendGridAPIKey   string `mapstructure:"SENDGRID_API_KEY"`
	MailFromName     string `mapstructure:"MAIL_FROM_NAME"`
	MailFromAddress  string `mapstructure:"MAIL_FROM_ADDRESS"`
	TwilioAccountSID string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `mapstructure:"TWILIO_FROM_NUMBER"`

	PostHogAPIKey   string
	PostHogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("SCHOOL_NAME", "School")
	viper.SetDefault("CURRENCY_CODE", "KES")
	viper.SetDefault("INVOICE_DUE_DAYS", 30)
	viper.SetDefault("PAYMENT_INSTRUCTIONS", "")
	viper.SetDefault("REMINDER_CRON", "@every 15m")
	viper.SetDefault("REMINDER_LOCK_TTL", "10m")
	viper.SetDefault("REMINDER_TIMEOUT", "5m")
	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("MAIL_FROM_NAME", "")
	viper.SetDefault("MAIL_FROM_ADDRESS", "")
	viper.SetDefault("TWILIO_ACCOUNT_SID", "")
	viper.SetDefault("TWILIO_AUTH_TOKEN", "")
	viper.SetDefault("TWILIO_FROM_NUMBER", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.StorageDriver = strings.ToLower(viper.GetString("STORAGE_DRIVER"))
	switch cfg.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StorageDriverPostgres)
		cfg.StorageDriver = StorageDriverPostgres
	}
	if cfg.StorageDriver == StorageDriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.SchoolName = viper.GetString("SCHOOL_NAME")
	cfg.CurrencyCode = viper.GetString("CURRENCY_CODE")
	cfg.PaymentInstructions = viper.GetString("PAYMENT_INSTRUCTIONS")
	cfg.InvoiceDueDays = viper.GetInt("INVOICE_DUE_DAYS")
	if cfg.InvoiceDueDays <= 0 {
		log.Printf("Warning: Invalid value for INVOICE_DUE_DAYS (%d). Defaulting to 30.\n", cfg.InvoiceDueDays)
		cfg.InvoiceDueDays = 30
	}

	cfg.ReminderCron = viper.GetString("REMINDER_CRON")
	cfg.ReminderLockTTL = parseDuration("REMINDER_LOCK_TTL", 10*time.Minute)
	cfg.ReminderTimeout = parseDuration("REMINDER_TIMEOUT", 5*time.Minute)

	cfg.SendGridAPIKey = viper.GetString("SENDGRID_API_KEY")
	cfg.MailFromName = viper.GetString("MAIL_FROM_NAME")
	if cfg.MailFromName == "" {
		cfg.MailFromName = cfg.SchoolName
	}
	cfg.MailFromAddress = viper.GetString("MAIL_FROM_ADDRESS")
	cfg.TwilioAccountSID = viper.GetString("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = viper.GetString("TWILIO_AUTH_TOKEN")
	cfg.TwilioFromNumber = viper.GetString("TWILIO_FROM_NUMBER")

	if cfg.SendGridAPIKey == "" && cfg.TwilioAccountSID == "" {
		log.Println("Warning: Neither SENDGRID_API_KEY nor TWILIO_ACCOUNT_SID set. Reminders will only be logged.")
	}

	cfg.PostHogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PostHogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
