package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/ports"
	"github.com/samirrijal/railwatch/internal/core/proximity"
)

type session struct {
	monitor   *proximity.Monitor
	startedAt time.Time
	ready     bool
	cancelled bool
}

// SessionService runs at most one proximity monitor per device.
type SessionService struct {
	sources proximity.Sources
	sink    ports.AlertSink
	opts    []proximity.Option
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionService creates a new SessionService.
func NewSessionService(sources proximity.Sources, sink ports.AlertSink, opts ...proximity.Option) *SessionService {
	return &SessionService{
		sources:  sources,
		sink:     sink,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Start begins monitoring deviceID. The returned error wraps
// proximity.ErrSubscribe when an input could not be subscribed.
func (s *SessionService) Start(ctx context.Context, deviceID string) (*domain.Session, error) {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" || strings.ContainsAny(deviceID, "/+#") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDevice, deviceID)
	}

	s.mu.Lock()
	if _, ok := s.sessions[deviceID]; ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, deviceID)
	}
	// Reserve the slot so a concurrent Start for the same device fails fast
	// while this one is still subscribing.
	sess := &session{
		monitor: proximity.New(deviceID, s.sources, s.sink, s.opts...),
	}
	s.sessions[deviceID] = sess
	s.mu.Unlock()

	if err := sess.monitor.Start(ctx); err != nil {
		s.mu.Lock()
		if s.sessions[deviceID] == sess {
			delete(s.sessions, deviceID)
		}
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	if sess.cancelled {
		s.mu.Unlock()
		sess.monitor.Stop()
		return nil, fmt.Errorf("%w: %s", ErrSessionCancelled, deviceID)
	}
	sess.startedAt = s.now().UTC()
	sess.ready = true
	s.mu.Unlock()

	slog.Info("monitoring session started", "device_id", deviceID)
	return &domain.Session{DeviceID: deviceID, StartedAt: sess.startedAt}, nil
}

// Stop ends the session for deviceID.
func (s *SessionService) Stop(deviceID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[deviceID]
	if !ok || !sess.ready {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSessionNotFound, deviceID)
	}
	delete(s.sessions, deviceID)
	s.mu.Unlock()

	sess.monitor.Stop()
	slog.Info("monitoring session stopped", "device_id", deviceID)
	return nil
}

// List returns the running sessions ordered by device id.
func (s *SessionService) List() []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if !sess.ready {
			continue
		}
		out = append(out, domain.Session{DeviceID: id, StartedAt: sess.startedAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DeviceID < out[j].DeviceID })
	return out
}

// StopAll ends every running session. Used on shutdown. A Start still
// subscribing is cancelled and stops its own monitor when it finishes.
func (s *SessionService) StopAll() {
	s.mu.Lock()
	var monitors []*proximity.Monitor
	for id, sess := range s.sessions {
		delete(s.sessions, id)
		if !sess.ready {
			sess.cancelled = true
			continue
		}
		monitors = append(monitors, sess.monitor)
	}
	s.mu.Unlock()

	for _, m := range monitors {
		m.Stop()
	}
	if len(monitors) > 0 {
		slog.Info("monitoring sessions stopped", "count", len(monitors))
	}
}
