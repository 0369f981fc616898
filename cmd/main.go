package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"traffic-analyzer/internal/adapter/auth"
	"traffic-analyzer/internal/adapter/gemini"
	"traffic-analyzer/internal/adapter/http"
	"traffic-analyzer/internal/adapter/memory"
	"traffic-analyzer/internal/adapter/postgres"
	"traffic-analyzer/internal/adapter/usecase"
	"traffic-analyzer/internal/config"
	"traffic-analyzer/internal/core/extractor"
	"traffic-analyzer/internal/core/port"
	"traffic-analyzer/internal/db"
	"traffic-analyzer/internal/metrics"
)

// main is the entry point of the traffic-analyzer service. It loads
// configuration, selects the state store, optionally seeds demo data, wires
// the message extractor when a Gemini key is present, then starts the HTTP
// server. On receiving a termination signal it gracefully shuts down the
// server.
func main() {
	exitCode := 1
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		} else {
			os.Exit(exitCode)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		return
	}
	logger := cfg.Log.New(os.Stdout)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var repo port.StateRepository
	if cfg.Store.UsePostgres() {
		if cfg.Psql.RunMigrations {
			if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
				logger.Error("migration error", slog.Any("error", err))
				return
			}
			logger.Info("migrations applied successfully")
		}
		pool, err := db.NewPostgresPool(ctx, cfg.Psql)
		if err != nil {
			logger.Error("database connection error", slog.Any("error", err))
			return
		}
		defer pool.Close()
		repo = postgres.NewStateRepository(pool)
	} else {
		logger.Warn("using in-memory state store; data is lost on restart")
		repo = memory.NewStateRepository()
	}

	if cfg.Store.SeedDemo {
		seeded, err := db.Seed(ctx, repo)
		if err != nil {
			logger.Error("seed error", slog.Any("error", err))
			return
		}
		if seeded {
			logger.Info("demo state seeded")
		}
	}

	m := metrics.New("traffic_analyzer")
	opts := []usecase.Option{usecase.WithMetrics(m)}
	if cfg.Gemini.APIKey != "" {
		svc, err := gemini.NewCompletionService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Error("gemini client error", slog.Any("error", err))
			return
		}
		opts = append(opts, usecase.WithExtractor(extractor.New(svc, extractor.WithTimeout(cfg.Extractor.Timeout))))
	} else {
		logger.Warn("GEMINI_API_KEY not set; message ingestion disabled")
	}

	dashboard := usecase.NewDashboard(repo, logger, opts...)
	if err = dashboard.Load(ctx); err != nil {
		logger.Error("state load error", slog.Any("error", err))
		return
	}

	handlerOpts := []httpadapter.Option{
		httpadapter.WithMetrics(m),
		httpadapter.WithMaxUploadBytes(cfg.HTTP.MaxUploadBytes),
		httpadapter.WithMessageLimiter(rate.NewLimiter(rate.Limit(cfg.Extractor.RPS), cfg.Extractor.Burst)),
	}
	if cfg.Auth.Enabled {
		if cfg.Env == "prod" {
			logger.Warn("static credential gate is meant for development and test deployments")
		}
		handlerOpts = append(handlerOpts, httpadapter.WithVerifier(auth.NewStaticVerifier(cfg.Auth.Email, cfg.Auth.Password)))
	}
	handler := httpadapter.NewHandler(dashboard, logger, handlerOpts...)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		exitCode = 0
	case err = <-serveErr:
		logger.Error("server error", slog.Any("error", err))
		return
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer stop()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		exitCode = 1
	} else {
		logger.Info("server gracefully stopped")
	}
}
