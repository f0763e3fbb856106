package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/funnelops/salesdash/internal/funnel"
)

type Config struct {
	Port           string
	DatabaseURL    string
	WebhookURL     string
	BenchmarksFile string
	HTTPTimeout    time.Duration
	LogLevel       slog.Level
}

// FromEnv loads configuration from the environment, reading a local .env
// first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		Port:           envOr("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		WebhookURL:     os.Getenv("REPORT_WEBHOOK_URL"),
		BenchmarksFile: os.Getenv("BENCHMARKS_FILE"),
		HTTPTimeout:    to,
		LogLevel:       lvl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// DefaultBenchmarks is the stock threshold set. The classifier never carries
// thresholds of its own; this table is injected at call time and can be
// overridden per deployment via BENCHMARKS_FILE.
func DefaultBenchmarks() map[string]funnel.Benchmark {
	list := []funnel.Benchmark{
		{Metric: funnel.RateViewToApp, Threshold: 0.02},
		{Metric: funnel.RateAppToQualified, Threshold: 0.5},
		{Metric: funnel.RateQualifiedToBooking, Threshold: 0.5},
		{Metric: funnel.RateBookingToShow, Threshold: 0.7},
		{Metric: funnel.RateShowToClose, Threshold: 0.24},
		{Metric: funnel.RateShowRate, Threshold: 0.7},
		{Metric: funnel.RateCloseRate, Threshold: 0.24},
		{Metric: funnel.RateNoShowRate, Threshold: 0.3, LowerIsBetter: true},
		{Metric: funnel.RateResponseRate, Threshold: 0.15},
		{Metric: funnel.RateConvoRate, Threshold: 0.5},
		{Metric: funnel.RateBookingRate, Threshold: 0.1},
		{Metric: funnel.RateCashROAS, Threshold: 3},
		{Metric: "costPerBooking", Threshold: 150, LowerIsBetter: true},
		{Metric: "costPerClose", Threshold: 1000, LowerIsBetter: true},
	}
	out := make(map[string]funnel.Benchmark, len(list))
	for _, b := range list {
		out[b.Metric] = b
	}
	return out
}

// LoadBenchmarks merges a JSON benchmarks file over the defaults. An empty
// path returns the defaults unchanged.
func LoadBenchmarks(path string) (map[string]funnel.Benchmark, error) {
	out := DefaultBenchmarks()
	if path == "" {
		return out, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmarks file: %w", err)
	}
	var list []funnel.Benchmark
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("parse benchmarks file: %w", err)
	}
	for _, bm := range list {
		out[bm.Metric] = bm
	}
	return out, nil
}
