package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/Juniorkpabitey/virtra/internal/config"
	"github.com/Juniorkpabitey/virtra/internal/repository/postgres"
	"github.com/Juniorkpabitey/virtra/internal/worker"
	"github.com/Juniorkpabitey/virtra/pkg/logger"
	"github.com/Juniorkpabitey/virtra/pkg/messaging/redis"
	"github.com/Juniorkpabitey/virtra/pkg/metrics"
)

func setupHealthCheck(l *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/health/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			l.Fatal(err, "health check server failed")
		}
	}()
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.NewLogger(&logger.Config{Level: logger.InfoLevel})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		l.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis, &log.Logger)
	if err != nil {
		l.Fatal(err, "failed to create redis broker")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(
		outboxRepo,
		broker,
		worker.OutboxProcessorConfig{
			BatchSize:     cfg.Outbox.BatchSize,
			PollInterval:  cfg.Outbox.PollInterval,
			RetryAttempts: cfg.Outbox.RetryAttempts,
			RetryDelay:    cfg.Outbox.RetryDelay,
		},
		l,
		metrics.NewMetrics("outbox_processor"),
	)

	cleanup := worker.NewOutboxCleanupWorker(
		outboxRepo,
		cfg.Outbox.RetentionDays,
		cfg.Outbox.CleanupInterval,
		l,
	)

	setupHealthCheck(l)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		l.Info("shutting down...")
		cancel()
	}()

	go cleanup.Start(ctx)
	processor.Start(ctx)
}
