package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/ports"
	"github.com/samirrijal/railwatch/internal/pkg/metrics"
	"github.com/samirrijal/railwatch/internal/pkg/telemetry"
)

const (
	// MaxNoteLength is the longest free-text note a reporter may attach.
	MaxNoteLength = 500

	activeReportsKey = "reports:active"
	activeReportsTTL = 15 // seconds

	defaultNearbyRadius = 5000.0
	maxNearbyRadius     = 50000.0
)

// ReportService handles hazard-report business logic.
type ReportService struct {
	reports   ports.ReportRepository
	events    ports.EventPublisher
	cache     ports.CacheService
	scheduler ports.ExpiryScheduler
	ttl       time.Duration
	now       func() time.Time
}

// NewReportService creates a new ReportService. cache and scheduler may be nil.
func NewReportService(
	reports ports.ReportRepository,
	events ports.EventPublisher,
	cache ports.CacheService,
	scheduler ports.ExpiryScheduler,
	ttl time.Duration,
) *ReportService {
	return &ReportService{
		reports:   reports,
		events:    events,
		cache:     cache,
		scheduler: scheduler,
		ttl:       ttl,
		now:       time.Now,
	}
}

// TTL is how long a new report stays active.
func (s *ReportService) TTL() time.Duration { return s.ttl }

// ValidateReport checks the fields a reporter controls.
func ValidateReport(r *domain.HazardReport) error {
	var problems []string
	if !r.Role.Valid() {
		problems = append(problems, fmt.Sprintf("unknown role %q", r.Role))
	}
	if !r.Location.Valid() {
		problems = append(problems, "location is out of range")
	}
	if utf8.RuneCountInString(r.Note) > MaxNoteLength {
		problems = append(problems, fmt.Sprintf("note exceeds %d characters", MaxNoteLength))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(problems, "; "))
	}
	return nil
}

// Create validates and stores a new report, then fans the active set out.
func (s *ReportService) Create(ctx context.Context, r *domain.HazardReport) (*domain.HazardReport, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ReportService.Create")
	defer span.End()

	if err := ValidateReport(r); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	now := s.now().UTC()
	r.Status = domain.ReportActive
	r.ReportedAt = now
	r.ExpiresAt = now.Add(s.ttl)
	r.ResolvedAt = nil

	if err := s.reports.Create(ctx, r); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create report: %w", err)
	}
	span.SetAttributes(attribute.String("report.id", r.ID), attribute.String("report.role", string(r.Role)))
	metrics.ReportsCreated.WithLabelValues(string(r.Role)).Inc()

	s.refresh(ctx)

	if s.scheduler != nil {
		if err := s.scheduler.ScheduleExpiry(ctx, r.ID, s.ttl); err != nil {
			slog.Warn("schedule report expiry", "report_id", r.ID, "error", err)
		}
	}

	return r, nil
}

// ListActive returns all active, unexpired reports.
func (s *ReportService) ListActive(ctx context.Context) ([]domain.HazardReport, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, activeReportsKey); err == nil {
			var reports []domain.HazardReport
			if err := json.Unmarshal(data, &reports); err == nil {
				metrics.CacheHits.WithLabelValues("reports_active").Inc()
				return reports, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("reports_active").Inc()
	}

	reports, err := s.reports.ListActive(ctx, s.now())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(reports); err == nil {
			_ = s.cache.Set(ctx, activeReportsKey, data, activeReportsTTL)
		}
	}

	return reports, nil
}

// Get returns a single report.
func (s *ReportService) Get(ctx context.Context, id string) (*domain.HazardReport, error) {
	return s.reports.GetByID(ctx, id)
}

// Resolve marks an active report as resolved and republishes the active set.
func (s *ReportService) Resolve(ctx context.Context, id string) error {
	ctx, span := telemetry.Tracer().Start(ctx, "ReportService.Resolve")
	defer span.End()
	span.SetAttributes(attribute.String("report.id", id))

	if err := s.reports.UpdateStatus(ctx, id, domain.ReportResolved, s.now().UTC()); err != nil {
		return fmt.Errorf("resolve report %s: %w", id, err)
	}
	s.refresh(ctx)
	return nil
}

// Expire marks a report as expired. A report that is no longer active is left alone.
func (s *ReportService) Expire(ctx context.Context, id string) error {
	err := s.reports.UpdateStatus(ctx, id, domain.ReportExpired, s.now().UTC())
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("expire report %s: %w", id, err)
	}
	s.refresh(ctx)
	return nil
}

// FindNearby returns active reports within radiusMeters of a point, closest first.
func (s *ReportService) FindNearby(ctx context.Context, at domain.GeoPoint, radiusMeters float64, limit int) ([]domain.HazardReport, error) {
	if !at.Valid() {
		return nil, fmt.Errorf("%w: location is out of range", ErrInvalidReport)
	}
	if radiusMeters <= 0 {
		radiusMeters = defaultNearbyRadius
	}
	if radiusMeters > maxNearbyRadius {
		radiusMeters = maxNearbyRadius
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	candidates, err := s.reports.FindNearby(ctx, at, radiusMeters, s.now(), limit)
	if err != nil {
		return nil, err
	}

	// The store measures on the spheroid; distances reported here are haversine.
	nearby := make([]domain.HazardReport, 0, len(candidates))
	for _, r := range candidates {
		d := at.DistanceTo(r.Location)
		if d > radiusMeters {
			continue
		}
		r.Distance = &d
		nearby = append(nearby, r)
	}
	sort.SliceStable(nearby, func(i, j int) bool { return *nearby[i].Distance < *nearby[j].Distance })

	if len(nearby) > limit {
		nearby = nearby[:limit]
	}
	return nearby, nil
}

// PublishSnapshot fans the current active set out to live subscribers.
func (s *ReportService) PublishSnapshot(ctx context.Context) error {
	reports, err := s.reports.ListActive(ctx, s.now())
	if err != nil {
		return fmt.Errorf("list active reports: %w", err)
	}
	entities := make([]domain.TrackedEntity, 0, len(reports))
	for _, r := range reports {
		entities = append(entities, r.Tracked())
	}
	if err := s.events.PublishReportedSnapshot(ctx, entities); err != nil {
		return fmt.Errorf("publish reported snapshot: %w", err)
	}
	metrics.SnapshotsPublished.WithLabelValues(string(domain.EntityReported)).Inc()
	return nil
}

// NotifyStaff tells station staff about a report. Used by the expiry workflow.
func (s *ReportService) NotifyStaff(ctx context.Context, id string) error {
	r, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get report %s: %w", id, err)
	}
	return s.events.PublishStaffNotice(ctx, r)
}

// refresh drops the cached list and republishes. Failures are logged only.
func (s *ReportService) refresh(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, activeReportsKey)
	}
	if err := s.PublishSnapshot(ctx); err != nil {
		slog.Warn("refresh reported snapshot", "error", err)
	}
}
