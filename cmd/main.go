// Package main wires the HTTP server for the parcel marketplace backend.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"parcelpeer/config"
	"parcelpeer/internal/auth"
	"parcelpeer/internal/gateway/geocode"
	"parcelpeer/internal/gateway/paystack"
	"parcelpeer/internal/metrics"
	api "parcelpeer/internal/oapi"
	"parcelpeer/internal/repository"
	"parcelpeer/internal/transport/http/middleware"
	"parcelpeer/internal/transport/http/server/handlers-fiber"
	"parcelpeer/internal/usecase"
	"parcelpeer/internal/usecase/domain"
	"parcelpeer/internal/worker"
	"parcelpeer/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = log.Sync()
	}()

	repo, err := repository.New(ctx, "postgres", log, cfg)
	if err != nil {
		log.Errorw("repository initialization error", "error", err)
		return
	}
	if err := repo.OnStart(ctx); err != nil {
		log.Errorw("repository start error", "error", err)
		return
	}
	defer func() {
		_ = repo.OnStop(context.Background())
	}()

	m := metrics.New()

	deps := domain.Dependencies{
		Repo:      repo,
		Payments:  paystack.New(cfg.Paystack, log),
		Tokens:    auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Passwords: auth.NewPasswords(cfg.Auth.BcryptCost),
		Metrics:   m,
	}
	if cfg.Geocoder.Enabled {
		deps.Geocoder = geocode.New(cfg.Geocoder, log)
	}

	timeout := cfg.HTTP.RequestTimeout
	uc := usecase.New(log, ctx, deps, timeout, domain.Settings{
		CallbackURL:      cfg.Paystack.CallbackURL,
		DisputeAutoClose: cfg.Sweeper.DisputeAutoClose,
	})

	serv := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.RequestTimeout,
		WriteTimeout: cfg.HTTP.RequestTimeout,
		BodyLimit:    cfg.HTTP.BodyLimit,
	})
	serv.Use(recover.New())
	serv.Use(requestid.New())
	serv.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowCredentials: cfg.HTTP.CORSOrigins != "*",
	}))
	serv.Use(middleware.RequestLogger(log.Named("access")))
	serv.Use(middleware.Metrics(m))

	h := handlers_fiber.NewHandler(log, uc, cfg.HTTP.SecureCookie)
	serv.Get("/healthz", h.Healthz)
	serv.Get("/readyz", h.Readyz)
	serv.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	serv.Use(middleware.RateLimit(cfg.RateLimit.Max, cfg.RateLimit.Window))
	api.RegisterHandlersWithOptions(serv, h, api.FiberServerOptions{
		Authenticate: middleware.Authenticate(log.Named("auth"), uc),
		Authorize:    middleware.RequirePermission,
	})

	sweeper := worker.NewSweeper(uc, cfg.Sweeper.Interval, cfg.Sweeper.Interval, log)
	go sweeper.Run(ctx)

	go func() {
		if err := serv.Listen(cfg.ServerAddr()); err != nil {
			log.Errorw("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = serv.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warnw("server shutdown timeout", "timeout", cfg.Server.ShutdownTimeout)
	}
}
