package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/ports"
	"github.com/samirrijal/railwatch/internal/pkg/metrics"
	"github.com/samirrijal/railwatch/internal/pkg/telemetry"
)

// maxClockSkew bounds how far in the future a camera timestamp may be.
const maxClockSkew = time.Minute

// DetectionService handles camera-detection business logic.
type DetectionService struct {
	detections ports.DetectionRepository
	events     ports.EventPublisher
	window     time.Duration
	now        func() time.Time
}

// NewDetectionService creates a new DetectionService. window is how far back
// the published camera snapshot reaches.
func NewDetectionService(detections ports.DetectionRepository, events ports.EventPublisher, window time.Duration) *DetectionService {
	return &DetectionService{
		detections: detections,
		events:     events,
		window:     window,
		now:        time.Now,
	}
}

func (s *DetectionService) validate(d *domain.Detection) error {
	var problems []string
	if strings.TrimSpace(d.CameraID) == "" {
		problems = append(problems, "camera_id is required")
	}
	if !d.Location.Valid() {
		problems = append(problems, "location is out of range")
	}
	if d.ObservedAt.IsZero() {
		problems = append(problems, "observed_at is required")
	} else if d.ObservedAt.After(s.now().Add(maxClockSkew)) {
		problems = append(problems, "observed_at is in the future")
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		problems = append(problems, "confidence must be between 0 and 1")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDetection, strings.Join(problems, "; "))
	}
	return nil
}

// Record stores a detection and republishes the recent camera set.
func (s *DetectionService) Record(ctx context.Context, d *domain.Detection) (*domain.Detection, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "DetectionService.Record")
	defer span.End()

	if err := s.validate(d); err != nil {
		return nil, err
	}
	d.ObservedAt = d.ObservedAt.UTC()
	d.CreatedAt = s.now().UTC()

	if err := s.detections.Create(ctx, d); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create detection: %w", err)
	}
	span.SetAttributes(attribute.String("detection.id", d.ID), attribute.String("detection.camera", d.CameraID))
	metrics.DetectionsRecorded.WithLabelValues(d.CameraID).Inc()

	if err := s.PublishSnapshot(ctx); err != nil {
		slog.Warn("refresh camera snapshot", "error", err)
	}
	return d, nil
}

// ListRecent returns detections observed inside the camera window, newest first.
func (s *DetectionService) ListRecent(ctx context.Context) ([]domain.Detection, error) {
	return s.detections.ListSince(ctx, s.now().Add(-s.window))
}

// PublishSnapshot fans the recent camera set out to live subscribers.
func (s *DetectionService) PublishSnapshot(ctx context.Context) error {
	recent, err := s.ListRecent(ctx)
	if err != nil {
		return fmt.Errorf("list recent detections: %w", err)
	}
	entities := make([]domain.TrackedEntity, 0, len(recent))
	for _, d := range recent {
		entities = append(entities, d.Tracked())
	}
	if err := s.events.PublishCameraSnapshot(ctx, entities); err != nil {
		return fmt.Errorf("publish camera snapshot: %w", err)
	}
	metrics.SnapshotsPublished.WithLabelValues(string(domain.EntityCamera)).Inc()
	return nil
}
