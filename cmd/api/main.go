package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/simhastha/margdarshak/internal/adapters/http"
	"github.com/simhastha/margdarshak/internal/adapters/llm"
	natsadapter "github.com/simhastha/margdarshak/internal/adapters/nats"
	"github.com/simhastha/margdarshak/internal/adapters/routing"
	"github.com/simhastha/margdarshak/internal/adapters/valkey"
	"github.com/simhastha/margdarshak/internal/core/domain"
	"github.com/simhastha/margdarshak/internal/core/ports"
	"github.com/simhastha/margdarshak/internal/core/usecases"
	"github.com/simhastha/margdarshak/internal/pkg/config"
	"github.com/simhastha/margdarshak/internal/pkg/logging"
	"github.com/simhastha/margdarshak/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("margdarshak-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("margdarshak-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Facility registry, seeded once; only parking state mutates afterwards.
	facilities := usecases.NewFacilityService(domain.SeedFacilities())

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	}

	// Parking snapshots are produced by the monitor daemon and folded into
	// the local registry here.
	var subscriber *natsadapter.Subscriber
	if natsConn != nil {
		subscriber, err = natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats subscriber unavailable", "error", err)
		} else {
			defer subscriber.Close()
			if err := subscriber.SubscribeParkingStatus(ctx, func(ctx context.Context, updates []domain.Facility) error {
				facilities.MergeParking(updates)
				return nil
			}); err != nil {
				slog.Warn("parking status subscribe failed", "error", err)
			}
		}
	}

	// LLM collaborator: chat sessions and crowding analysis
	assistant := llm.New(cfg.OpenAI.APIKey, cfg.OpenAI.ChatModel, facilities)

	// Routing collaborator with cached geometry
	var routeCache ports.CacheService
	if cache != nil {
		routeCache = cache
	}
	router := routing.New(cfg.Routing.BaseURL, routeCache, cfg.Routing.CacheTTL)

	// The monitor backs the manual analyze endpoint. Without a broker there
	// is no daemon feeding snapshots, so this process runs the tick loop
	// itself to keep the map alive in standalone mode.
	monitor := usecases.NewCrowdingMonitor(facilities, assistant, nil, usecases.MonitorConfig{
		Interval:     cfg.Monitor.Interval(),
		WalkDelta:    cfg.Monitor.WalkDelta,
		CrowdedRatio: cfg.Monitor.CrowdedRatio,
	})
	if subscriber == nil {
		go monitor.Run(ctx)
	}

	deps := &http.Dependencies{
		Facilities: facilities,
		Monitor:    monitor,
		Routing:    router,
		Chat:       assistant,
		NATS:       natsConn,
		Cache:      cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Margdarshak API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.margdarshak.in",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
