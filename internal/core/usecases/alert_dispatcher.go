package usecases

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/ports"
	"github.com/samirrijal/railwatch/internal/pkg/metrics"
)

const alertPublishTimeout = 5 * time.Second

// AlertDispatcher implements ports.AlertSink by publishing alerts to the broker.
// Delivery is asynchronous and never retried.
type AlertDispatcher struct {
	events ports.EventPublisher
	now    func() time.Time
	wg     sync.WaitGroup
}

// NewAlertDispatcher creates a new AlertDispatcher.
func NewAlertDispatcher(events ports.EventPublisher) *AlertDispatcher {
	return &AlertDispatcher{events: events, now: time.Now}
}

// RaiseAlert stamps the alert and publishes it in the background.
func (d *AlertDispatcher) RaiseAlert(alert *domain.Alert) {
	if alert.RaisedAt.IsZero() {
		alert.RaisedAt = d.now().UTC()
	}

	slog.Info("alert raised",
		"kind", alert.Kind,
		"device_id", alert.DeviceID,
		"entity_id", alert.EntityID,
	)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), alertPublishTimeout)
		defer cancel()
		if err := d.events.PublishAlert(ctx, alert); err != nil {
			metrics.AlertDeliveryErrors.Inc()
			slog.Warn("alert delivery failed",
				"device_id", alert.DeviceID,
				"entity_id", alert.EntityID,
				"error", err,
			)
		}
	}()
}

// Wait blocks until in-flight publishes have finished.
func (d *AlertDispatcher) Wait() {
	d.wg.Wait()
}
