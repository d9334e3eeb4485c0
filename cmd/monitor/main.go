// Command monitor runs proximity monitoring without the HTTP API, for the
// fixed set of on-board devices listed in a manifest.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqttadapter "github.com/samirrijal/railwatch/internal/adapters/mqtt"
	natsadapter "github.com/samirrijal/railwatch/internal/adapters/nats"
	"github.com/samirrijal/railwatch/internal/core/proximity"
	"github.com/samirrijal/railwatch/internal/core/usecases"
	"github.com/samirrijal/railwatch/internal/pkg/config"
	"github.com/samirrijal/railwatch/internal/pkg/logging"
)

// Manifest lists the devices to monitor.
type Manifest struct {
	Devices []DeviceEntry `json:"devices"`
}

// DeviceEntry is one on-board unit.
type DeviceEntry struct {
	DeviceID string `json:"device_id"`
	Train    string `json:"train,omitempty"`
}

const retryInterval = 30 * time.Second

func main() {
	cfg, err := config.Load("railwatch-monitor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("railwatch-monitor", cfg.Log.Level, cfg.Log.Format)

	manifestPath := "devices.json"
	if len(os.Args) > 1 {
		manifestPath = os.Args[1]
	}
	manifest, err := loadManifest(manifestPath)
	if err != nil {
		log.Fatalf("manifest: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	dispatcher := usecases.NewAlertDispatcher(pub)
	sessions := usecases.NewSessionService(proximity.Sources{
		Position: mqttadapter.NewPositionSource(mqttClient, byte(cfg.MQTT.QoS)),
		Hazards:  sub,
		Cameras:  sub,
	}, dispatcher)

	slog.Info("railwatch monitor starting", "devices", len(manifest.Devices))

	pending := startAll(ctx, sessions, manifest.Devices)

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			if len(pending) > 0 {
				pending = startAll(ctx, sessions, pending)
			}
		case sig := <-quit:
			slog.Info("shutting down monitor", "signal", sig.String())
			cancel()
			sessions.StopAll()
			dispatcher.Wait()
			return
		}
	}
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(m.Devices) == 0 {
		return nil, fmt.Errorf("%s lists no devices", path)
	}
	return &m, nil
}

// startAll starts a session per device and returns the ones worth retrying.
// Invalid ids are dropped; feed failures are retried.
func startAll(ctx context.Context, sessions *usecases.SessionService, devices []DeviceEntry) []DeviceEntry {
	var (
		mu    sync.Mutex
		retry []DeviceEntry
		wg    sync.WaitGroup
	)
	sem := make(chan struct{}, 8)

	for _, d := range devices {
		wg.Add(1)
		go func(d DeviceEntry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			_, err := sessions.Start(ctx, d.DeviceID)
			switch {
			case err == nil, errors.Is(err, usecases.ErrSessionExists):
			case errors.Is(err, proximity.ErrSubscribe):
				slog.Warn("session start failed, will retry", "device_id", d.DeviceID, "error", err)
				mu.Lock()
				retry = append(retry, d)
				mu.Unlock()
			default:
				slog.Error("session start failed", "device_id", d.DeviceID, "train", d.Train, "error", err)
			}
		}(d)
	}

	wg.Wait()
	return retry
}
