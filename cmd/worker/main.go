package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/noah-isme/backend-arena/internal/config"
	"github.com/noah-isme/backend-arena/internal/notify"
	"github.com/noah-isme/backend-arena/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "arena"), nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	taskConn, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url for task queue")
	}

	srv := asynq.NewServer(taskConn, asynq.Config{
		Concurrency: envInt("INVITE_WORKER_CONCURRENCY", 4),
		Queues:      map[string]int{cfg.InviteQueueName: 1},
		RetryDelayFunc: func(n int, _ error, _ *asynq.Task) time.Duration {
			// Exponential backoff capped at five minutes.
			d := time.Duration(1<<uint(n)) * time.Second
			if d > 5*time.Minute {
				d = 5 * time.Minute
			}
			return d
		},
	})

	worker := &notify.InviteWorker{
		Sender: notify.WhatsAppSender{
			Token:   cfg.WhatsAppToken,
			PhoneID: cfg.WhatsAppPhoneID,
			BaseURL: cfg.WhatsAppBaseURL,
			Client:  &http.Client{Timeout: 15 * time.Second},
		},
		Logger: logger,
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(notify.TaskTypeInvite, worker.HandleInvite)

	logger.Info().Str("queue", cfg.InviteQueueName).Msg("invite worker starting")
	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start task server")
	}

	<-ctx.Done()
	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}
