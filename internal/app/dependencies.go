package app

import (
	"context"

	validator "github.com/go-playground/validator/v10"
	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/backend-arena/internal/auth"
	"github.com/noah-isme/backend-arena/internal/events"
	"github.com/noah-isme/backend-arena/internal/payment"
	"github.com/noah-isme/backend-arena/internal/registration"
	"github.com/noah-isme/backend-arena/internal/tournament"
)

// Dependencies enumerates core services shared across the API and worker
// binaries to make wiring explicit.
type Dependencies struct {
	Context         context.Context
	DB              *pgxpool.Pool
	Redis           *redis.Client
	Validator       *validator.Validate
	GlobalLimiter   *limiter.Limiter
	TaskClient      *asynq.Client
	TaskServer      *asynq.Server
	MetricsRegistry *prometheus.Registry
	TracerProvider  trace.TracerProvider
	MeterProvider   metric.MeterProvider

	AuthVerifier  auth.Verifier
	Events        *events.Bus
	Payments      *payment.Service
	Tournaments   *tournament.Service
	Registrations *registration.Service
}

// NewGlobalLimiter wires a redis-backed limiter covering the whole API
// surface. rate uses limiter's formatted notation, e.g. "100-M".
func NewGlobalLimiter(rdb *redis.Client, rate string) (*limiter.Limiter, error) {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: "arena:limiter"})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, parsed), nil
}

// RunMigrations applies pending migrations, tolerating an up-to-date schema.
func RunMigrations(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// NewValidator builds the request validator shared by the services.
func NewValidator() *validator.Validate {
	return validator.New()
}

// Tracer returns the default OpenTelemetry tracer for instrumentation hooks.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Meter returns the default OpenTelemetry meter for instrumentation hooks.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}
