package natsadapter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/railwatch/internal/core/domain"
	"github.com/samirrijal/railwatch/internal/core/ports"
)

// Subscriber implements ports.HazardSource and ports.CameraSource on top of
// the JetStream snapshot subjects.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext

	mu   sync.Mutex
	subs map[*nats.Subscription]struct{}
}

// NewSubscriber creates a subscriber on an existing connection.
func NewSubscriber(conn *nats.Conn) (*Subscriber, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js, subs: make(map[*nats.Subscription]struct{})}, nil
}

func (s *Subscriber) SubscribeHazardSet(ctx context.Context, onSnapshot func([]domain.TrackedEntity)) (ports.Unsubscribe, error) {
	return s.subscribeSnapshot(ctx, SubjectReportedSnapshot, onSnapshot)
}

func (s *Subscriber) SubscribeCameraSet(ctx context.Context, onSnapshot func([]domain.TrackedEntity)) (ports.Unsubscribe, error) {
	return s.subscribeSnapshot(ctx, SubjectCameraSnapshot, onSnapshot)
}

// subscribeSnapshot creates an ephemeral consumer starting at the latest
// snapshot, so the callback sees the current set straight away.
func (s *Subscriber) subscribeSnapshot(ctx context.Context, subject string, onSnapshot func([]domain.TrackedEntity)) (ports.Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		_, entities, err := DecodeSnapshot(msg.Data)
		if err != nil {
			slog.Warn("dropping malformed snapshot", "subject", msg.Subject, "error", err)
			return
		}
		onSnapshot(entities)
	},
		nats.DeliverLast(),
		nats.AckNone(),
	)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
			_ = sub.Unsubscribe()
		})
	}, nil
}

// Close unsubscribes everything still open. The connection is owned by the caller.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = make(map[*nats.Subscription]struct{})
}
