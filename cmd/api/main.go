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
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/c2cexplorer/internal/adapters/c2c"
	"github.com/samirrijal/c2cexplorer/internal/adapters/http"
	natsadapter "github.com/samirrijal/c2cexplorer/internal/adapters/nats"
	"github.com/samirrijal/c2cexplorer/internal/adapters/valkey"
	"github.com/samirrijal/c2cexplorer/internal/core/domain"
	"github.com/samirrijal/c2cexplorer/internal/core/ports"
	"github.com/samirrijal/c2cexplorer/internal/core/usecases"
	"github.com/samirrijal/c2cexplorer/internal/pkg/config"
	"github.com/samirrijal/c2cexplorer/internal/pkg/geospatial"
	"github.com/samirrijal/c2cexplorer/internal/pkg/logging"
	"github.com/samirrijal/c2cexplorer/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("c2cexplorer-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

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

	deps := &http.Dependencies{}

	// Cache
	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, upstream responses will not be cached", "error", err)
		} else {
			defer vc.Close()
			cache = vc
			deps.Cache = vc
		}
	}

	// NATS
	var events ports.EventPublisher
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, search events disabled", "error", err)
		} else {
			defer pub.Close()
			events = pub
			deps.NATS = pub.Conn()
		}
	}

	// Upstream route database
	upstream := c2c.New(c2c.Options{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   cfg.Upstream.Timeout(),
		CacheTTL:  cfg.Upstream.CacheTTLSeconds,
		UserAgent: cfg.Upstream.UserAgent,
	}, cache)
	deps.Upstream = upstream

	bbox := geospatial.ProjectedBBox(domain.ChamonixBounds)
	slog.Info("region bounding box", "bbox", bbox)

	// Use cases
	resolver := usecases.NewQueryResolver(upstream, usecases.DefaultAreaRegistry(), bbox)
	deps.Search = usecases.NewSearchService(resolver, events)
	deps.Routes = usecases.NewRouteService(upstream)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "C2C Explorer API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps, time.Duration(cfg.Server.RequestTimeout)*time.Second)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "upstream", cfg.Upstream.BaseURL)
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
