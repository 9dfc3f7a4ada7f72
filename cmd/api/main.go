package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/consultapp/partner-api/config"
	"github.com/consultapp/partner-api/internal/handler"
	partnershipHandler "github.com/consultapp/partner-api/internal/handler/partnership"
	"github.com/consultapp/partner-api/internal/middleware"
	"github.com/consultapp/partner-api/internal/repository/postgres"
	"github.com/consultapp/partner-api/internal/router"
	partnershipService "github.com/consultapp/partner-api/internal/service/partnership"
	"github.com/consultapp/partner-api/pkg/logger"
	"github.com/consultapp/partner-api/pkg/messaging/redis"
	"github.com/consultapp/partner-api/pkg/metrics"
	"github.com/consultapp/partner-api/pkg/worker"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.NewLogger(nil).WithComponent("api")

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	base := postgres.NewBaseRepository(db)
	partnershipRepo := postgres.NewPartnershipRepository(base)
	directory := postgres.NewEntityDirectory(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	// Initialize metrics
	m := metrics.NewMetrics("partner_api", "partnership")

	// Initialize services
	validator := partnershipService.NewValidator()
	projector := partnershipService.NewProjector(m)
	partnershipSvc := partnershipService.NewService(
		partnershipRepo,
		directory,
		outboxRepo,
		validator,
		projector,
		m,
		l.WithComponent("partnership"),
	)

	// Initialize middleware
	actorMiddleware := middleware.NewActorMiddleware(cfg.Auth.Secret)

	// Initialize handlers
	h := handler.NewHandler(db)
	partnershipH := partnershipHandler.NewHandler(partnershipSvc)

	// Setup router
	r := router.NewRouter(actorMiddleware, partnershipH, h, router.RouterConfig{
		RateLimitRPS:  cfg.RateLimit.RequestsPerSecond,
		RateBurst:     cfg.RateLimit.Burst,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "partner_api",
		Timeout:       cfg.Server.RequestTimeout,
	})
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Initialize Redis message broker
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

	// Initialize and start outbox processor with broker
	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
		RetainFor:     cfg.Outbox.RetainFor,
	}, l.WithComponent("outbox"), m)
	go outboxProcessor.Start(processorCtx)

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
