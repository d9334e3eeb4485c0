package usecases_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/ports"
)

// --- Mock ReportRepository ---

type mockReportRepo struct {
	createFn       func(ctx context.Context, r *domain.HazardReport) error
	getByIDFn      func(ctx context.Context, id string) (*domain.HazardReport, error)
	listActiveFn   func(ctx context.Context, now time.Time) ([]domain.HazardReport, error)
	findNearbyFn   func(ctx context.Context, at domain.GeoPoint, radius float64, now time.Time, limit int) ([]domain.HazardReport, error)
	updateStatusFn func(ctx context.Context, id string, status domain.ReportStatus, at time.Time) error

	listActiveCalls int
}

func (m *mockReportRepo) Create(ctx context.Context, r *domain.HazardReport) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	r.ID = "report-1"
	return nil
}

func (m *mockReportRepo) CreateBatch(ctx context.Context, rs []domain.HazardReport) error { return nil }

func (m *mockReportRepo) GetByID(ctx context.Context, id string) (*domain.HazardReport, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReportRepo) ListActive(ctx context.Context, now time.Time) ([]domain.HazardReport, error) {
	m.listActiveCalls++
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, now)
	}
	return nil, nil
}

func (m *mockReportRepo) FindNearby(ctx context.Context, at domain.GeoPoint, radius float64, now time.Time, limit int) ([]domain.HazardReport, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, at, radius, now, limit)
	}
	return nil, nil
}

func (m *mockReportRepo) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus, at time.Time) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status, at)
	}
	return nil
}

// --- Mock DetectionRepository ---

type mockDetectionRepo struct {
	createFn    func(ctx context.Context, d *domain.Detection) error
	listSinceFn func(ctx context.Context, since time.Time) ([]domain.Detection, error)
}

func (m *mockDetectionRepo) Create(ctx context.Context, d *domain.Detection) error {
	if m.createFn != nil {
		return m.createFn(ctx, d)
	}
	d.ID = "det-1"
	return nil
}

func (m *mockDetectionRepo) ListSince(ctx context.Context, since time.Time) ([]domain.Detection, error) {
	if m.listSinceFn != nil {
		return m.listSinceFn(ctx, since)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockEvents struct {
	mu        sync.Mutex
	reported  [][]domain.TrackedEntity
	cameras   [][]domain.TrackedEntity
	alerts    []*domain.Alert
	notices   []*domain.HazardReport
	alertErr  error
	publishFn func() error
}

func (m *mockEvents) PublishReportedSnapshot(ctx context.Context, es []domain.TrackedEntity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reported = append(m.reported, es)
	if m.publishFn != nil {
		return m.publishFn()
	}
	return nil
}

func (m *mockEvents) PublishCameraSnapshot(ctx context.Context, es []domain.TrackedEntity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cameras = append(m.cameras, es)
	if m.publishFn != nil {
		return m.publishFn()
	}
	return nil
}

func (m *mockEvents) PublishAlert(ctx context.Context, a *domain.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, a)
	return m.alertErr
}

func (m *mockEvents) PublishStaffNotice(ctx context.Context, r *domain.HazardReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, r)
	return nil
}

func (m *mockEvents) alertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.alerts)
}

// --- Mock CacheService ---

type mockCache struct {
	data    map[string][]byte
	deleted []string
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// --- Mock ExpiryScheduler ---

type mockScheduler struct {
	scheduled map[string]time.Duration
	err       error
}

func (m *mockScheduler) ScheduleExpiry(ctx context.Context, reportID string, ttl time.Duration) error {
	if m.scheduled == nil {
		m.scheduled = map[string]time.Duration{}
	}
	m.scheduled[reportID] = ttl
	return m.err
}

// --- Fake live sources for sessions ---

type fakeSources struct {
	mu       sync.Mutex
	fail     bool
	released int

	// When gate is set, SubscribePosition signals entered and blocks on gate.
	entered chan struct{}
	gate    chan struct{}
}

func (f *fakeSources) unsub() ports.Unsubscribe {
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.released++
	}
}

func (f *fakeSources) releasedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}

func (f *fakeSources) SubscribePosition(ctx context.Context, deviceID string, cb func(domain.GeoPoint)) (ports.Unsubscribe, error) {
	if f.gate != nil {
		f.entered <- struct{}{}
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("mqtt unavailable")
	}
	return f.unsub(), nil
}

func (f *fakeSources) SubscribeHazardSet(ctx context.Context, cb func([]domain.TrackedEntity)) (ports.Unsubscribe, error) {
	return f.unsub(), nil
}

func (f *fakeSources) SubscribeCameraSet(ctx context.Context, cb func([]domain.TrackedEntity)) (ports.Unsubscribe, error) {
	return f.unsub(), nil
}

type nopSink struct{}

func (nopSink) RaiseAlert(*domain.Alert) {}
