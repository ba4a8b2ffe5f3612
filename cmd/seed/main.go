package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/config"
	"github.com/helpdesk-kit/helpdesk-service/internal/events"
	"github.com/helpdesk-kit/helpdesk-service/internal/observability"
	"github.com/helpdesk-kit/helpdesk-service/internal/persistence"
	"github.com/helpdesk-kit/helpdesk-service/internal/seed"
	"github.com/helpdesk-kit/helpdesk-service/internal/sequence"
	"github.com/helpdesk-kit/helpdesk-service/internal/service"
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

	if !cfg.Seed.Allow {
		logger.Fatal("refusing to seed", zap.Error(seed.ErrNotAllowed))
	}

	ctx := context.Background()
	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer store.Close()

	var counters sequence.Store = store.Sequences
	if cfg.Sequence.Backend == config.SequenceBackendRedis {
		redis := persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		counters = redis.SequenceStore()
	}

	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   store.Tickets,
		MessageRepo:  store.Messages,
		CategoryRepo: store.Categories,
		UserRepo:     store.Users,
		Sequence:     sequence.NewGenerator(counters),
		Dispatcher:   events.NewInMemoryDispatcher(),
		Logger:       logger,
		CodePrefix:   cfg.Sequence.TicketPrefix,
		CounterName:  cfg.Sequence.CounterName,
	})

	res, err := seed.New(store, tickets, logger).Run(ctx, seed.Options{
		Allow:      cfg.Seed.Allow,
		Password:   cfg.Seed.Password,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed completed", zap.Strings("tickets", res.TicketCodes))
}
