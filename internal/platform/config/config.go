package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string

	StoreBackend   string
	DBTxMaxRetries int
	DBTxRetryBase  time.Duration

	RateLimit          string   // ulule formatted, e.g. "100-M"
	CORSAllowedOrigins []string // empty disables CORS

	BaseCurrency string

	EventsBackend string // redis, kafka or none
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KafkaBrokers  []string
	KafkaTopic    string

	MailerBackend      string // log or redis
	MailerRedisList    string
	NotifyPollInterval time.Duration
	NotifyBatchSize    int
	NotifyMaxAttempts  int

	EscalationSweepInterval time.Duration // zero leaves sweeping to an external scheduler
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "ledger-engine")
	v.SetDefault("STORE_BACKEND", StorePostgres)
	v.SetDefault("DB_TX_MAX_RETRIES", 3)
	v.SetDefault("DB_TX_RETRY_BASE", "20ms")
	v.SetDefault("RATE_LIMIT", "600-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("BASE_CURRENCY", "USD")
	v.SetDefault("EVENTS_BACKEND", "none")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TOPIC", "ledger.journal.posted")
	v.SetDefault("MAILER_BACKEND", "log")
	v.SetDefault("MAILER_REDIS_LIST", "ledger:notifications")
	v.SetDefault("NOTIFY_POLL_INTERVAL", "5s")
	v.SetDefault("NOTIFY_BATCH_SIZE", 50)
	v.SetDefault("NOTIFY_MAX_ATTEMPTS", 5)
	v.SetDefault("ESCALATION_SWEEP_INTERVAL", "0s")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        v.GetString("PGSQL_URL"),
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		StoreBackend:       strings.ToLower(v.GetString("STORE_BACKEND")),
		DBTxMaxRetries:     v.GetInt("DB_TX_MAX_RETRIES"),
		RateLimit:          v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		BaseCurrency:       strings.ToUpper(v.GetString("BASE_CURRENCY")),
		EventsBackend:      strings.ToLower(v.GetString("EVENTS_BACKEND")),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		KafkaBrokers:       splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:         v.GetString("KAFKA_TOPIC"),
		MailerBackend:      strings.ToLower(v.GetString("MAILER_BACKEND")),
		MailerRedisList:    v.GetString("MAILER_REDIS_LIST"),
		NotifyBatchSize:    v.GetInt("NOTIFY_BATCH_SIZE"),
		NotifyMaxAttempts:  v.GetInt("NOTIFY_MAX_ATTEMPTS"),
	}

	var err error
	if cfg.DBTxRetryBase, err = duration(v, "DB_TX_RETRY_BASE"); err != nil {
		return nil, err
	}
	if cfg.NotifyPollInterval, err = duration(v, "NOTIFY_POLL_INTERVAL"); err != nil {
		return nil, err
	}
	if cfg.EscalationSweepInterval, err = duration(v, "ESCALATION_SWEEP_INTERVAL"); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("PGSQL_URL is required when STORE_BACKEND=%s", StorePostgres)
		}
	case StoreMemory:
		slog.Warn("Using the in-memory store; data is lost on restart")
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.BaseCurrency) != 3 {
		return fmt.Errorf("BASE_CURRENCY must be a three-letter code, got %q", c.BaseCurrency)
	}
	if c.NotifyBatchSize <= 0 || c.NotifyMaxAttempts <= 0 {
		return fmt.Errorf("NOTIFY_BATCH_SIZE and NOTIFY_MAX_ATTEMPTS must be positive")
	}
	if c.NotifyPollInterval <= 0 {
		return fmt.Errorf("NOTIFY_POLL_INTERVAL must be positive")
	}
	if c.DBTxMaxRetries < 0 {
		return fmt.Errorf("DB_TX_MAX_RETRIES must not be negative")
	}
	return nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
