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

	"github.com/samirrijal/railwatch/internal/adapters/http"
	mqttadapter "github.com/samirrijal/railwatch/internal/adapters/mqtt"
	natsadapter "github.com/samirrijal/railwatch/internal/adapters/nats"
	"github.com/samirrijal/railwatch/internal/adapters/postgres"
	temporaladapter "github.com/samirrijal/railwatch/internal/adapters/temporal"
	"github.com/samirrijal/railwatch/internal/adapters/valkey"
	"github.com/samirrijal/railwatch/internal/core/ports"
	"github.com/samirrijal/railwatch/internal/core/proximity"
	"github.com/samirrijal/railwatch/internal/core/usecases"
	"github.com/samirrijal/railwatch/internal/pkg/config"
	"github.com/samirrijal/railwatch/internal/pkg/logging"
	"github.com/samirrijal/railwatch/internal/pkg/metrics"
	"github.com/samirrijal/railwatch/internal/pkg/telemetry"
)

// snapshotRefresh republishes both live sets so expired entries drop out
// even when no report changes.
const snapshotRefresh = time.Minute

func main() {
	cfg, err := config.Load("railwatch-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup("railwatch-api", cfg.Log.Level, cfg.Log.Format)

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

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var (
		cacheSvc    ports.CacheService
		cachePinger http.Pinger
	)
	if cache, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, running without cache", "error", err)
	} else {
		defer cache.Close()
		cacheSvc, cachePinger = cache, cache
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	sub, err := natsadapter.NewSubscriber(pub.Conn())
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	mqttClient, err := mqttadapter.Connect(cfg.MQTT.Broker, cfg.MQTT.ClientID)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	var scheduler ports.ExpiryScheduler
	if cfg.Temporal.Enabled {
		tc, err := temporaladapter.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
		if err != nil {
			slog.Warn("temporal unavailable, reports expire by timestamp only", "error", err)
		} else {
			defer tc.Close()
			scheduler = temporaladapter.NewScheduler(tc, cfg.Temporal.TaskQueue)
		}
	}

	reportSvc := usecases.NewReportService(postgres.NewReportRepo(db), pub, cacheSvc, scheduler, cfg.Reports.TTL)
	detectionSvc := usecases.NewDetectionService(postgres.NewDetectionRepo(db), pub, cfg.Reports.CameraWindow)

	dispatcher := usecases.NewAlertDispatcher(pub)
	sessionSvc := usecases.NewSessionService(proximity.Sources{
		Position: mqttadapter.NewPositionSource(mqttClient, byte(cfg.MQTT.QoS)),
		Hazards:  sub,
		Cameras:  sub,
	}, dispatcher)

	go backgroundLoop(ctx, db, reportSvc, detectionSvc)

	deps := &http.Dependencies{
		Reports:    reportSvc,
		Detections: detectionSvc,
		Sessions:   sessionSvc,
		NATS:       pub.Conn(),
		DB:         db,
		Cache:      cachePinger,
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "Railwatch API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	sessionSvc.StopAll()
	dispatcher.Wait()
	cancel()

	slog.Info("server stopped")
}

// backgroundLoop refreshes pool gauges and the live snapshots until ctx ends.
func backgroundLoop(ctx context.Context, db *postgres.DB, reports *usecases.ReportService, detections *usecases.DetectionService) {
	poolTicker := time.NewTicker(15 * time.Second)
	defer poolTicker.Stop()
	refreshTicker := time.NewTicker(snapshotRefresh)
	defer refreshTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poolTicker.C:
			metrics.UpdateDBPoolMetrics(db.Stat())
		case <-refreshTicker.C:
			if err := reports.PublishSnapshot(ctx); err != nil {
				slog.Warn("periodic reported snapshot", "error", err)
			}
			if err := detections.PublishSnapshot(ctx); err != nil {
				slog.Warn("periodic camera snapshot", "error", err)
			}
		}
	}
}
