package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kirinyoku/citybus/internal/flow"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Flow     FlowConfig
	LogLevel slog.Level
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	AuthRateLimit  int
	IdempotencyTTL time.Duration
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	// Seed writes the built-in stop into the catalog tables on start.
	Seed bool
}

type FlowConfig struct {
	DiscoveryDelay time.Duration
	BookingDelay   time.Duration
	Codes          flow.CodeVerifier
	Payments       flow.PaymentGateway
	SessionTTL     time.Duration
}

// Env returns the reducer settings.
func (f FlowConfig) Env() flow.Env {
	return flow.Env{
		DiscoveryDelay: f.DiscoveryDelay,
		BookingDelay:   f.BookingDelay,
		Codes:          f.Codes,
		Payments:       f.Payments,
	}
}

// New reads .env (if present) and the process environment. Empty
// POSTGRES_USER selects the built-in catalog and empty REDIS_ADDR turns the
// Redis features off.
func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	cfg, err := fromEnv(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return cfg, nil
}

func fromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	serverPort, err := strconv.Atoi(env("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	postgresPort, err := strconv.Atoi(env("POSTGRES_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT: %w", err)
	}

	postgresCfg := PostgresConfig{
		User:     env("POSTGRES_USER", ""),
		Password: env("POSTGRES_PASSWORD", ""),
		Name:     env("POSTGRES_DB", ""),
		Host:     env("POSTGRES_HOST", "localhost"),
		Port:     postgresPort,
		SSLMode:  env("POSTGRES_SSLMODE", "disable"),
	}

	if postgresCfg.User != "" && postgresCfg.Name == "" {
		return nil, fmt.Errorf("missing POSTGRES_DB")
	}

	postgresCfg.Seed, err = strconv.ParseBool(env("CATALOG_SEED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_SEED: %w", err)
	}

	redisDB, err := strconv.Atoi(env("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	authLimit, err := strconv.Atoi(env("AUTH_RATE_LIMIT", "10"))
	if err != nil || authLimit <= 0 {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT %q", getenv("AUTH_RATE_LIMIT"))
	}

	idemTTL, err := duration(env("IDEMPOTENCY_TTL", "2h"), "IDEMPOTENCY_TTL")
	if err != nil {
		return nil, err
	}

	redisCfg := RedisConfig{
		Addr:           env("REDIS_ADDR", ""),
		Password:       env("REDIS_PASSWORD", ""),
		DB:             redisDB,
		AuthRateLimit:  authLimit,
		IdempotencyTTL: idemTTL,
	}

	discovery, err := duration(env("DISCOVERY_DELAY", "2s"), "DISCOVERY_DELAY")
	if err != nil {
		return nil, err
	}

	booking, err := duration(env("BOOKING_DELAY", "1500ms"), "BOOKING_DELAY")
	if err != nil {
		return nil, err
	}

	sessionTTL, err := duration(env("SESSION_TTL", "30m"), "SESSION_TTL")
	if err != nil {
		return nil, err
	}

	codes, err := flow.ParseCodeVerifier(env("OTP_POLICY", "accept"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP_POLICY: %w", err)
	}

	payments, err := flow.ParsePaymentGateway(env("PAYMENT_POLICY", "approve"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_POLICY: %w", err)
	}

	level, err := ParseLevel(env("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Host: env("SERVER_HOST", "localhost"),
			Port: serverPort,
		},
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Flow: FlowConfig{
			DiscoveryDelay: discovery,
			BookingDelay:   booking,
			Codes:          codes,
			Payments:       payments,
			SessionTTL:     sessionTTL,
		},
		LogLevel: level,
	}, nil
}

// ParseLevel maps debug|info|warn|error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}

func duration(s, key string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}
