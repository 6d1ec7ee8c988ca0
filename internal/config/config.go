package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"
)

// Config carries everything the engine needs, loaded once in main and
// injected into each component. Nothing below reads the environment after
// startup.
type Config struct {
	Port        string
	DatabaseURL string

	// Scoring / dispatch thresholds
	WarmBandMin        int // inclusive
	WarmBandMax        int // exclusive
	QualifiedThreshold int
	HighValueThreshold int

	// Follow-up window and batching
	FollowUpMinAge time.Duration
	FollowUpMaxAge time.Duration
	BatchCap       int
	ClaimLease     time.Duration

	// Scheduler auth. When empty the batch endpoint is open (logged at boot).
	CronSecret string

	// SMTP (alert + follow-up sends)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailReplyTo  string
	SalesInbox   string

	// Text-generation collaborator
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	// RabbitMQ
	AMQPUser string
	AMQPPass string
	AMQPHost string
	AMQPPort string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        envOr("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		WarmBandMin:        envInt("WARM_BAND_MIN", 40),
		WarmBandMax:        envInt("WARM_BAND_MAX", 60),
		QualifiedThreshold: envInt("QUALIFIED_THRESHOLD", 60),
		HighValueThreshold: envInt("HIGH_VALUE_THRESHOLD", 80),

		FollowUpMinAge: envHours("FOLLOW_UP_MIN_AGE_HOURS", 2),
		FollowUpMaxAge: envHours("FOLLOW_UP_MAX_AGE_HOURS", 48),
		BatchCap:       envInt("FOLLOW_UP_BATCH_CAP", 10),
		ClaimLease:     envMinutes("FOLLOW_UP_CLAIM_LEASE_MINUTES", 10),

		CronSecret: os.Getenv("CRON_SECRET"),

		SMTPHost:     os.Getenv("MAIL_HOST"),
		SMTPPort:     envInt("MAIL_PORT", 587),
		SMTPUser:     os.Getenv("MAIL_USER"),
		SMTPPassword: os.Getenv("MAIL_PASS"),
		MailFrom:     envOr("MAIL_FROM", "lloyd@pixelmojo.io"),
		MailReplyTo:  envOr("MAIL_REPLY_TO", "lloyd@pixelmojo.io"),
		SalesInbox:   envOr("SALES_INBOX", "lloyd@pixelmojo.io"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   envOr("OPENAI_MODEL", "gpt-4o-mini"),

		AMQPUser: envOr("RABBITMQ_USER", "guest"),
		AMQPPass: envOr("RABBITMQ_PASS", "guest"),
		AMQPHost: envOr("RABBITMQ_HOST", "localhost"),
		AMQPPort: envOr("RABBITMQ_PORT", "5672"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.WarmBandMin >= cfg.WarmBandMax {
		return nil, errors.New("warm band min must be below warm band max")
	}
	if cfg.FollowUpMinAge >= cfg.FollowUpMaxAge {
		return nil, errors.New("follow-up min age must be below max age")
	}
	if cfg.CronSecret == "" {
		log.Println("⚠️ CRON_SECRET not set: scheduler and admin endpoints are unauthenticated")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func envHours(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Hour
}

func envMinutes(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Minute
}
