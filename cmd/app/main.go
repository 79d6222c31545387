package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tooniwear/storefront-backend/internal/config"
	"github.com/tooniwear/storefront-backend/internal/logger"
	"github.com/tooniwear/storefront-backend/internal/notify"
	"github.com/tooniwear/storefront-backend/internal/order"
	"github.com/tooniwear/storefront-backend/internal/ratelimit"
	"github.com/tooniwear/storefront-backend/internal/server"
	"github.com/tooniwear/storefront-backend/internal/store"
	"github.com/tooniwear/storefront-backend/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(cfg.Common.ServiceName, cfg.Common.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	backend, err := store.OpenBackend(ctx, cfg.Store, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("open store failed")
	}
	defer func() { _ = backend.Close() }()

	users, err := store.Open[user.User](ctx, backend, store.KindUsers)
	if err != nil {
		log.Fatal().Err(err).Msg("open users store failed")
	}
	orders, err := store.Open[order.Order](ctx, backend, store.KindOrders)
	if err != nil {
		log.Fatal().Err(err).Msg("open orders store failed")
	}

	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	notifier, closeNotifier := newNotifier(cfg, log)
	defer closeNotifier()

	app := server.New(server.Deps{
		Config:   cfg,
		Log:      log,
		Users:    users,
		Orders:   orders,
		Limiter:  limiter,
		Notifier: notifier,
	})

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Str("store", backend.Name()).Msg("http started")
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			log.Fatal().Err(err).Msg("http failed")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutdown...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// newLimiter shares checkout counters through Redis when REDIS_ADDR is set.
func newLimiter(ctx context.Context, cfg config.Config, log zerolog.Logger) (ratelimit.Limiter, func()) {
	if cfg.Redis.Addr == "" {
		return ratelimit.NewMemoryLimiter(cfg.Checkout.RateMax, cfg.Checkout.RateWindow), func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, limiter will admit on errors")
	}
	return ratelimit.NewRedisLimiter(client, "checkout:", cfg.Checkout.RateMax, cfg.Checkout.RateWindow),
		func() { _ = client.Close() }
}

// newNotifier always logs orders and also publishes them when RABBIT_URL is set.
func newNotifier(cfg config.Config, log zerolog.Logger) (notify.Notifier, func()) {
	logNotifier := notify.NewLogNotifier(log, cfg.Checkout.StoreEmail, cfg.Checkout.StorePhone)
	if cfg.Rabbit.URL == "" {
		return logNotifier, func() {}
	}

	rc, err := notify.Connect(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
	if err != nil {
		log.Error().Err(err).Msg("rabbit connect failed, order events disabled")
		return logNotifier, func() {}
	}
	return notify.Fanout{logNotifier, notify.NewRabbitNotifier(rc.Ch, cfg.Rabbit.Exchange)},
		func() { _ = rc.Close() }
}
