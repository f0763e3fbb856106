package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/funnelops/salesdash/internal/config"
	"github.com/funnelops/salesdash/internal/dashboard"
	"github.com/funnelops/salesdash/internal/httpx"
	"github.com/funnelops/salesdash/internal/notify"
	"github.com/funnelops/salesdash/internal/store"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	benches, err := config.LoadBenchmarks(cfg.BenchmarksFile)
	if err != nil {
		logger.Error("load benchmarks", slog.String("err", err.Error()))
		os.Exit(1)
	}

	var st store.Store
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pg, err := store.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			cancel()
			logger.Error("open store", slog.String("err", err.Error()))
			os.Exit(1)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			cancel()
			logger.Error("ensure schema", slog.String("err", err.Error()))
			os.Exit(1)
		}
		cancel()
		defer pg.Close()
		st = pg
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		st = store.NewMemory()
	}

	nt := notify.New(cfg.WebhookURL, cfg.HTTPTimeout, logger)
	svc := dashboard.NewService(st, benches, logger)

	r := httpx.NewRouter(logger, st, svc, nt)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
