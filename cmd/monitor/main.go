package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/simhastha/margdarshak/internal/adapters/llm"
	natsadapter "github.com/simhastha/margdarshak/internal/adapters/nats"
	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/usecases"
	"github.com/simhastha/margdarshak/internal/pkg/config"
	"github.com/simhastha/margdarshak/internal/pkg/logging"
	"github.com/simhastha/margdarshak/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("margdarshak-monitor")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("margdarshak-monitor", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// This daemon owns the simulation; API instances fold the published
	// snapshots into their own registries.
	facilities := usecases.NewFacilityService(domain.SeedFacilities())

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer publisher.Close()

	analyzer := llm.New(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, facilities)

	monitor := usecases.NewCrowdingMonitor(facilities, analyzer, publisher, usecases.MonitorConfig{
		Interval:     cfg.Monitor.Interval(),
		WalkDelta:    cfg.Monitor.WalkDelta,
		CrowdedRatio: cfg.Monitor.CrowdedRatio,
	})

	go monitor.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received", "signal", sig.String())
	cancel()

	// Give the in-flight tick time to publish before draining.
	time.Sleep(2 * time.Second)
	slog.Info("monitor stopped")
}
