// Package proximity evaluates a device's live position against hazard
// snapshots and raises throttled alerts.
package proximity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/ports"
	"github.com/samirrijal/railwatch/internal/pkg/metrics"
)

const (
	// RadiusMeters is the distance at or under which a reported hazard alerts.
	RadiusMeters = 1000.0
	// ThrottleWindow is the minimum gap between two alerts for the same hazard.
	ThrottleWindow = 10 * time.Second
)

var (
	ErrAlreadyStarted = errors.New("proximity: monitor already started")
	ErrSubscribe      = errors.New("proximity: subscribe failed")
)

// Sources groups the three live inputs a monitor consumes.
type Sources struct {
	Position ports.PositionSource
	Hazards  ports.HazardSource
	Cameras  ports.CameraSource
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithLogger sets the logger used for skipped data and lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) { m.log = l }
}

// Monitor is one monitoring session for a single device. It owns the three
// subscriptions and the throttle state; Start after Stop begins a fresh session.
type Monitor struct {
	deviceID string
	src      Sources
	sink     ports.AlertSink
	now      func() time.Time
	log      *slog.Logger

	// lifecycle serialises Start and Stop. Callbacks only take mu.
	lifecycle sync.Mutex
	unsubs    []ports.Unsubscribe

	mu               sync.Mutex
	running          bool
	generation       uint64
	position         *domain.GeoPoint
	reported         []domain.TrackedEntity
	lastAlertAt      map[string]time.Time
	lastCameraSeenAt time.Time
}

// New creates a stopped monitor for deviceID.
func New(deviceID string, src Sources, sink ports.AlertSink, opts ...Option) *Monitor {
	m := &Monitor{
		deviceID:    deviceID,
		src:         src,
		sink:        sink,
		now:         time.Now,
		log:         slog.Default(),
		lastAlertAt: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With("device_id", deviceID)
	return m
}

// DeviceID returns the device this monitor watches.
func (m *Monitor) DeviceID() string { return m.deviceID }

// Running reports whether the session is active.
func (m *Monitor) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Start subscribes to all three inputs. If any subscription fails the ones
// already acquired are released and an error wrapping ErrSubscribe is returned.
func (m *Monitor) Start(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.generation++
	gen := m.generation
	m.running = true
	m.position = nil
	m.reported = nil
	m.lastAlertAt = make(map[string]time.Time)
	m.lastCameraSeenAt = time.Time{}
	m.mu.Unlock()

	// Sources may deliver an initial value synchronously, so mu must not be
	// held while subscribing.
	var acquired []ports.Unsubscribe
	fail := func(what string, err error) error {
		release(acquired)
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		m.log.Warn("monitor start failed", "input", what, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrSubscribe, what, err)
	}

	unsub, err := m.src.Position.SubscribePosition(ctx, m.deviceID, m.onPosition(gen))
	if err != nil {
		return fail("position", err)
	}
	acquired = append(acquired, unsub)

	unsub, err = m.src.Hazards.SubscribeHazardSet(ctx, m.onHazards(gen))
	if err != nil {
		return fail("hazard set", err)
	}
	acquired = append(acquired, unsub)

	unsub, err = m.src.Cameras.SubscribeCameraSet(ctx, m.onCameras(gen))
	if err != nil {
		return fail("camera set", err)
	}
	acquired = append(acquired, unsub)

	m.unsubs = acquired
	metrics.ActiveSessions.Inc()
	m.log.Info("monitor started")
	return nil
}

// Stop releases all subscriptions. It is safe to call more than once.
func (m *Monitor) Stop() {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	m.mu.Lock()
	wasRunning := m.running
	m.running = false
	m.mu.Unlock()

	if !wasRunning {
		return
	}

	release(m.unsubs)
	m.unsubs = nil
	metrics.ActiveSessions.Dec()
	m.log.Info("monitor stopped")
}

func release(unsubs []ports.Unsubscribe) {
	for _, u := range unsubs {
		if u != nil {
			u()
		}
	}
}

// active must be called with mu held.
func (m *Monitor) active(gen uint64) bool {
	return m.running && m.generation == gen
}

func (m *Monitor) onPosition(gen uint64) func(domain.GeoPoint) {
	return func(p domain.GeoPoint) {
		m.mu.Lock()
		if !m.active(gen) {
			m.mu.Unlock()
			return
		}
		if !p.Valid() {
			m.mu.Unlock()
			metrics.MonitorEntitiesSkipped.WithLabelValues("position").Inc()
			m.log.Debug("skipping invalid device position", "lat", p.Lat, "lon", p.Lon)
			return
		}
		m.position = &p
		alerts := m.evaluateProximity()
		m.mu.Unlock()

		metrics.MonitorEvaluations.WithLabelValues("position").Inc()
		m.raise(alerts)
	}
}

func (m *Monitor) onHazards(gen uint64) func([]domain.TrackedEntity) {
	return func(entities []domain.TrackedEntity) {
		m.mu.Lock()
		if !m.active(gen) {
			m.mu.Unlock()
			return
		}
		m.reported = append([]domain.TrackedEntity(nil), entities...)
		alerts := m.evaluateProximity()
		m.mu.Unlock()

		metrics.MonitorEvaluations.WithLabelValues("hazards").Inc()
		m.raise(alerts)
	}
}

func (m *Monitor) onCameras(gen uint64) func([]domain.TrackedEntity) {
	return func(entities []domain.TrackedEntity) {
		m.mu.Lock()
		if !m.active(gen) {
			m.mu.Unlock()
			return
		}
		alert := m.evaluateCamera(entities)
		m.mu.Unlock()

		metrics.MonitorEvaluations.WithLabelValues("cameras").Inc()
		if alert != nil {
			m.raise([]*domain.Alert{alert})
		}
	}
}

// inRange reports whether a hazard at distance meters is close enough to alert.
func inRange(meters float64) bool {
	return meters <= RadiusMeters
}

// evaluateProximity must be called with mu held.
func (m *Monitor) evaluateProximity() []*domain.Alert {
	if m.position == nil {
		return nil
	}
	now := m.now()

	var alerts []*domain.Alert
	for _, e := range m.reported {
		if !e.Position.Valid() {
			metrics.MonitorEntitiesSkipped.WithLabelValues(string(domain.EntityReported)).Inc()
			m.log.Debug("skipping hazard with invalid coordinates", "entity_id", e.ID)
			continue
		}
		d := m.position.DistanceTo(e.Position)
		if !inRange(d) {
			continue
		}
		if last, ok := m.lastAlertAt[e.ID]; ok && now.Sub(last) <= ThrottleWindow {
			continue
		}
		m.lastAlertAt[e.ID] = now

		dist := d
		alerts = append(alerts, &domain.Alert{
			Kind:     domain.AlertProximity,
			DeviceID: m.deviceID,
			EntityID: e.ID,
			Message:  fmt.Sprintf("Elephant reported %.0f m from your position", d),
			Position: e.Position,
			Distance: &dist,
			RaisedAt: now,
		})
	}
	return alerts
}

// evaluateCamera must be called with mu held. The newest detection wins; on
// equal timestamps the first one in snapshot order is kept.
func (m *Monitor) evaluateCamera(entities []domain.TrackedEntity) *domain.Alert {
	var newest *domain.TrackedEntity
	for i := range entities {
		e := &entities[i]
		if e.ObservedAt.IsZero() || !e.Position.Valid() {
			metrics.MonitorEntitiesSkipped.WithLabelValues(string(domain.EntityCamera)).Inc()
			m.log.Debug("skipping unusable camera detection", "entity_id", e.ID)
			continue
		}
		if newest == nil || e.ObservedAt.After(newest.ObservedAt) {
			newest = e
		}
	}
	if newest == nil || newest.ObservedAt.Equal(m.lastCameraSeenAt) {
		return nil
	}
	m.lastCameraSeenAt = newest.ObservedAt

	return &domain.Alert{
		Kind:     domain.AlertCamera,
		DeviceID: m.deviceID,
		EntityID: newest.ID,
		Message:  "New camera detection of elephants near the track",
		Position: newest.Position,
		RaisedAt: m.now(),
	}
}

func (m *Monitor) raise(alerts []*domain.Alert) {
	for _, a := range alerts {
		metrics.AlertsRaised.WithLabelValues(string(a.Kind)).Inc()
		m.sink.RaiseAlert(a)
	}
}
