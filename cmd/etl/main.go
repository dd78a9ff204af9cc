package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aresdata/esports-etl/internal/app"
	"github.com/aresdata/esports-etl/internal/config"
	"github.com/aresdata/esports-etl/internal/observability"
	"github.com/aresdata/esports-etl/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

// Usage: etl [stage ...]
// Stages: games teams players tournaments rosters series.
// No arguments runs every stage in dependency order.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof", "error", err)
		os.Exit(1)
	}

	pipeline, err := app.NewPipeline(ctx, cfg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	stages := os.Args[1:]
	started := time.Now()
	logger.InfoContext(ctx, "sync starting",
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"games", len(cfg.Games),
		"stages", stages,
	)

	runErr := pipeline.Run(ctx, stages)

	if err := pipeline.Close(); err != nil {
		logger.Error("close pipeline", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, shutdownTimeout); err != nil {
		logger.Error("stop pprof", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Error("stop pyroscope", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace", "error", err)
	}
	cancel()

	if runErr != nil {
		logger.Error("sync finished with failures", "error", runErr, "took", time.Since(started).String())
		os.Exit(1)
	}

	logger.Info("sync finished", "took", time.Since(started).String())
}
