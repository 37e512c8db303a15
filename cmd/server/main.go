package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dqengine/internal/platform/config"
	"dqengine/internal/platform/httpserver"
	"dqengine/internal/platform/logger"
	httpmetrics "dqengine/internal/platform/metrics"
	"dqengine/internal/platform/middleware"
	"dqengine/internal/platform/postgres"
	"dqengine/internal/platform/redis"
	"dqengine/internal/quality/engine"
	"dqengine/internal/quality/handler"
	qualitymetrics "dqengine/internal/quality/metrics"
	"dqengine/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/quality.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("data quality engine stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	deps := engine.Deps{
		DB:           db,
		Logger:       log,
		Metrics:      qualitymetrics.New(),
		RulesFile:    cfg.Quality.RulesFile,
		RuleCacheTTL: cfg.Quality.RuleCacheTTL,
		MaxBatchSize: cfg.Quality.MaxBatchSize,
		Concurrency:  cfg.Quality.ValidationConcurrency,

		UniquenessFailureThreshold: cfg.Quality.UniquenessFailureThreshold,
		UniquenessCooldown:         cfg.Quality.UniquenessCooldown,
	}
	var checks []handler.HealthCheck
	if db != nil {
		checks = append(checks, handler.HealthCheck{Name: "postgres", Check: db.PingContext})
	}
	if rc != nil {
		defer rc.Close()
		deps.Redis = rc.Client
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: rc.Health})
	}

	eng, err := engine.New(deps)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(log, httpmetrics.New()))
	r.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	handler.New(eng.Service, eng.Rules, log).Register(r)
	handler.NewHealth(log, checks...).Register(r)
	r.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Server.Addr, r)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting data quality engine",
			"addr", cfg.Server.Addr,
			"postgres", db != nil,
			"redis", rc != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
