package ports

import (
	"context"
	"time"

	"github.com/samirrijal/railwatch/internal/core/domain"
)

// Unsubscribe releases a live subscription. Calling it more than once is safe.
type Unsubscribe func()

// PositionSource streams the live position of a single device, most recent wins.
type PositionSource interface {
	SubscribePosition(ctx context.Context, deviceID string, onUpdate func(domain.GeoPoint)) (Unsubscribe, error)
}

// HazardSource streams full snapshots of the reported-hazard set.
type HazardSource interface {
	SubscribeHazardSet(ctx context.Context, onSnapshot func([]domain.TrackedEntity)) (Unsubscribe, error)
}

// CameraSource streams full snapshots of the camera-detection set.
type CameraSource interface {
	SubscribeCameraSet(ctx context.Context, onSnapshot func([]domain.TrackedEntity)) (Unsubscribe, error)
}

// AlertSink receives alerts raised by a monitoring session. Fire and forget.
type AlertSink interface {
	RaiseAlert(alert *domain.Alert)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishReportedSnapshot(ctx context.Context, entities []domain.TrackedEntity) error
	PublishCameraSnapshot(ctx context.Context, entities []domain.TrackedEntity) error
	PublishAlert(ctx context.Context, alert *domain.Alert) error
	PublishStaffNotice(ctx context.Context, report *domain.HazardReport) error
}

// ExpiryScheduler arranges for a report to expire after ttl.
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, reportID string, ttl time.Duration) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
