package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/joho/godotenv"

	"github.com/riskibarqy/matchday-feed/internal/app"
	"github.com/riskibarqy/matchday-feed/internal/config"
	"github.com/riskibarqy/matchday-feed/internal/observability"
	"github.com/riskibarqy/matchday-feed/internal/platform/logging"
)

// pipeline runs one pass (schedule, collect, enrich, aggregate) and prints the report to stdout.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// stdout carries the report; logs go to stderr.
	logger := logging.NewJSONWriter(cfg.LogLevel, os.Stderr).With("service", cfg.ServiceName, "env", cfg.AppEnv)
	logging.SetDefault(logger)

	os.Exit(run(cfg, logger))
}

func run(cfg config.Config, logger *logging.Logger) int {
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	runtime, err := app.NewRuntime(ctx, cfg, logger)
	if err != nil {
		logger.Error("build runtime", "error", err)
		return 1
	}
	defer func() {
		if err := runtime.Close(); err != nil {
			logger.Warn("close runtime", "error", err)
		}
	}()

	report, runErr := runtime.Pipeline.Run(ctx)
	if err := sonic.ConfigDefault.NewEncoder(os.Stdout).Encode(report); err != nil {
		logger.Error("write report", "error", err)
		return 1
	}
	if runErr != nil {
		logger.Error("pipeline run failed", "error", runErr)
		return 1
	}
	logger.Info("pipeline run finished",
		"duration_ms", report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
		"provider_breaker", runtime.Provider.BreakerState(),
	)
	return 0
}
