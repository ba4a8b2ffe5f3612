package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/helpdesk-kit/helpdesk-service/internal/api/http"
	"github.com/helpdesk-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/helpdesk-kit/helpdesk-service/internal/auth"
	"github.com/helpdesk-kit/helpdesk-service/internal/config"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/lifecycle"
	"github.com/helpdesk-kit/helpdesk-service/internal/observability"
	"github.com/helpdesk-kit/helpdesk-service/internal/persistence"
	"github.com/helpdesk-kit/helpdesk-service/internal/sequence"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
	"github.com/helpdesk-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()

	var counters sequence.Store = store.Sequences
	if cfg.Sequence.Backend == config.SequenceBackendRedis {
		counters = redis.SequenceStore()
	}
	generator := sequence.NewGenerator(counters, sequence.WithFailureHook(func(name string, err error) {
		metrics.RecordSequenceFailure(name)
		logger.Error("sequence increment failed", zap.String("counter", name), zap.Error(err))
	}))

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartActivityWorker(service.NewActivityService(dispatcher, logger, metrics))

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{UserRepo: store.Users})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   store.Tickets,
		MessageRepo:  store.Messages,
		CategoryRepo: store.Categories,
		UserRepo:     store.Users,
		Sequence:     generator,
		Engine:       lifecycle.NewEngine(nil),
		Dispatcher:   dispatcher,
		Logger:       logger,
		CodePrefix:   cfg.Sequence.TicketPrefix,
		CounterName:  cfg.Sequence.CounterName,
	})
	directoryService := service.NewDirectoryService(store.Categories, store.Users)

	checks := map[string]handlers.Check{"store": store.Ping}
	if redis != nil {
		checks["redis"] = redis.Ping
	}

	app := httptransport.NewServer(httptransport.ServerConfig{
		AppName:        cfg.App.Name,
		RequestTimeout: cfg.App.RequestTimeout(),
		Logger:         logger,
		Metrics:        metrics,
		Routes: httptransport.RouteConfig{
			Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks),
			Auth:           handlers.NewAuthHandler(authService),
			Tickets:        handlers.NewTicketsHandler(ticketService),
			Directory:      handlers.NewDirectoryHandler(directoryService),
			AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), store.Users),
		},
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("fiber shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
