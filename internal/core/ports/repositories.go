package ports

import (
	"context"
	"time"

	"github.com/samirrijal/railwatch/internal/core/domain"
)

// ReportRepository persists hazard reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.HazardReport) error
	CreateBatch(ctx context.Context, reports []domain.HazardReport) error
	GetByID(ctx context.Context, id string) (*domain.HazardReport, error)
	ListActive(ctx context.Context, now time.Time) ([]domain.HazardReport, error)
	FindNearby(ctx context.Context, at domain.GeoPoint, radiusMeters float64, now time.Time, limit int) ([]domain.HazardReport, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, at time.Time) error
}

// DetectionRepository persists camera detections.
type DetectionRepository interface {
	Create(ctx context.Context, d *domain.Detection) error
	ListSince(ctx context.Context, since time.Time) ([]domain.Detection, error)
}
