package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/consultapp/partner-api/config"
	"github.com/consultapp/partner-api/internal/email"
	"github.com/consultapp/partner-api/internal/repository/postgres"
	"github.com/consultapp/partner-api/internal/service/notification"
	"github.com/consultapp/partner-api/pkg/logger"
	"github.com/consultapp/partner-api/pkg/messaging/redis"
	"github.com/consultapp/partner-api/pkg/metrics"
	"github.com/consultapp/partner-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.NewLogger(nil).WithComponent("worker")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	outboxRepo := postgres.NewOutboxRepository(base)
	directory := postgres.NewEntityDirectory(base)

	zl := log.Logger
	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	m := metrics.NewMetrics("partner_worker", "outbox")

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
		RetainFor:     cfg.Outbox.RetainFor,
	}, l.WithComponent("outbox"), m)

	emailSvc := email.NewService(cfg.SMTP)
	notifier := notification.NewService(broker, directory, emailSvc, l.WithComponent("notification"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := notifier.Run(ctx); err != nil {
			log.Error().Err(err).Msg("notification service stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")

	cancel()
	wg.Wait()

	log.Info().Msg("worker exited properly")
}
