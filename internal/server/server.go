// Package server assembles the storefront HTTP application.
package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"

	"github.com/tooniwear/storefront-backend/internal/catalog"
	"github.com/tooniwear/storefront-backend/internal/checkout"
	"github.com/tooniwear/storefront-backend/internal/config"
	"github.com/tooniwear/storefront-backend/internal/guard"
	"github.com/tooniwear/storefront-backend/internal/logger"
	"github.com/tooniwear/storefront-backend/internal/metrics"
	"github.com/tooniwear/storefront-backend/internal/notify"
	"github.com/tooniwear/storefront-backend/internal/order"
	"github.com/tooniwear/storefront-backend/internal/password"
	"github.com/tooniwear/storefront-backend/internal/ratelimit"
	"github.com/tooniwear/storefront-backend/internal/session"
	"github.com/tooniwear/storefront-backend/internal/store"
	"github.com/tooniwear/storefront-backend/internal/user"
)

// authWindow is the period for the per-address login/register limit.
const authWindow = time.Minute

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Config   config.Config
	Log      zerolog.Logger
	Users    store.Store[user.User]
	Orders   store.Store[order.Order]
	Limiter  ratelimit.Limiter
	Notifier notify.Notifier
}

// New builds the Fiber app with every route mounted.
func New(d Deps) *fiber.App {
	cfg := d.Config

	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.CookieSecure)
	users := user.NewService(user.NewRecordRepository(d.Users), password.NewHasher(cfg.Session.BcryptCost))
	orderRepo := order.NewRecordRepository(d.Orders)
	placer := checkout.NewService(orderRepo, d.Limiter, d.Notifier, cfg.Checkout.OrderPrefix, d.Log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.Common.ServiceName,
		ErrorHandler: errorHandler(d.Log),
	})

	app.Use(corsMiddleware(cfg.HTTP.CORSOrigin))
	app.Use(logger.Middleware(d.Log))
	app.Use(metrics.Middleware(cfg.Common.ServiceName))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	app.Get("/metrics", metrics.Handler())

	app.Use("/account", sessions.Refresh(), guard.New(sessions))
	app.Use("/api/auth/me", sessions.Refresh())

	user.NewHandler(users, sessions, d.Log).
		RegisterPublicRoutes(app, ratelimit.PerIP(cfg.Checkout.AuthRateMax, authWindow))
	catalog.NewHandler(catalog.NewService(catalog.NewInMemoryRepository(catalog.Seed()))).
		RegisterPublicRoutes(app)
	checkout.NewHandler(placer, cfg.Checkout.StoreEmail, d.Log).
		RegisterPublicRoutes(app)
	order.NewHandler(order.NewService(orderRepo), d.Log).
		RegisterProtectedRoutes(app, sessions.Protect())

	if cfg.HTTP.PublicDir != "" {
		app.Static("/", cfg.HTTP.PublicDir)
	}
	return app
}

func corsMiddleware(origin string) fiber.Handler {
	if origin == "" {
		origin = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     origin,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowCredentials: origin != "*",
	})
}

func errorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		} else {
			log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}
