package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/helpdesk-kit/helpdesk-service/internal/observability"
)

// ServerConfig describes the fiber application shell.
type ServerConfig struct {
	AppName        string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Routes         RouteConfig
}

// NewServer assembles the fiber app with middlewares and routes.
func NewServer(cfg ServerConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: ErrorHandler(cfg.Logger, cfg.Metrics),
	})
	RegisterMiddlewares(app, cfg.Logger, cfg.Metrics, cfg.RequestTimeout)
	if cfg.Routes.Metrics == nil && cfg.Metrics != nil {
		cfg.Routes.Metrics = cfg.Metrics.Handler()
	}
	RegisterRoutes(app, cfg.Routes)
	return app
}
