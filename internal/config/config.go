package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	// Razorpay credentials. KeySecret must never reach a client or a log line.
	RazorpayKeyID          string
	RazorpayKeySecret      string
	RazorpayPublishableKey string
	RazorpayBaseURL        string
	GatewayTimeout         time.Duration

	// External auth provider token validation.
	AuthJWTSecret   string
	AuthJWTIssuer   string
	AuthJWTAudience string
	AuthClockSkew   time.Duration

	TournamentCacheTTL time.Duration
	IdempotencyTTL     time.Duration

	OrderRateLimitMax    int
	OrderRateLimitWindow time.Duration

	WhatsAppToken    string
	WhatsAppPhoneID  string
	WhatsAppBaseURL  string
	InviteMaxRetries int
	InviteQueueName  string

	AutoMigrate      bool
	MigrationsDir    string
	RequestBodyLimit int64
	SecurityHeaders  bool
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		RazorpayKeyID:          k.String("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:      k.String("RAZORPAY_KEY_SECRET"),
		RazorpayPublishableKey: k.String("RAZORPAY_PUBLISHABLE_KEY_ID"),
		RazorpayBaseURL:        valueOrDefault(k.String("RAZORPAY_BASE_URL"), "https://api.razorpay.com"),
		GatewayTimeout:         parseDuration(k.String("GATEWAY_TIMEOUT"), "10s"),

		AuthJWTSecret:   k.String("AUTH_JWT_SECRET"),
		AuthJWTIssuer:   k.String("AUTH_JWT_ISSUER"),
		AuthJWTAudience: k.String("AUTH_JWT_AUDIENCE"),
		AuthClockSkew:   parseDuration(k.String("AUTH_CLOCK_SKEW"), "30s"),

		TournamentCacheTTL: parseDuration(k.String("TOURNAMENT_CACHE_TTL"), "5m"),
		IdempotencyTTL:     parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),

		OrderRateLimitMax:    parseInt(k.String("ORDER_RATE_LIMIT_MAX"), 20),
		OrderRateLimitWindow: parseDuration(k.String("ORDER_RATE_LIMIT_WINDOW"), "1m"),

		WhatsAppToken:    k.String("WHATSAPP_TOKEN"),
		WhatsAppPhoneID:  k.String("WHATSAPP_PHONE_ID"),
		WhatsAppBaseURL:  valueOrDefault(k.String("WHATSAPP_BASE_URL"), "https://graph.facebook.com/v19.0"),
		InviteMaxRetries: parseInt(k.String("INVITE_MAX_RETRIES"), 5),
		InviteQueueName:  valueOrDefault(k.String("INVITE_QUEUE_NAME"), "invites"),

		AutoMigrate:      parseBool(k.String("AUTO_MIGRATE")),
		MigrationsDir:    valueOrDefault(k.String("MIGRATIONS_DIR"), "migrations"),
		RequestBodyLimit: int64(parseInt(k.String("REQUEST_BODY_LIMIT"), 1<<20)),
		SecurityHeaders:  parseBoolDefault(k.String("SECURITY_HEADERS"), true),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, errors.New("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}
	if cfg.AuthJWTSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(trimmed, "%d", &n); err != nil {
		return fallback
	}
	return n
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseBoolDefault(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
