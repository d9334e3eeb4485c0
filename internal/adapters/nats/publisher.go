package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/railwatch/internal/core/domain"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	now  func() time.Time
}

// streams are created or updated on connect. Snapshot subjects keep only their
// latest message so late subscribers start from the current set.
var streams = []nats.StreamConfig{
	{
		Name:              "RAILWATCH_SNAPSHOTS",
		Subjects:          []string{"railwatch.snapshot.>"},
		Retention:         nats.LimitsPolicy,
		MaxMsgsPerSubject: 1,
		Storage:           nats.FileStorage,
	},
	{
		Name:      "RAILWATCH_ALERTS",
		Subjects:  []string{SubjectAlertsAll},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	},
	{
		Name:      "RAILWATCH_NOTICES",
		Subjects:  []string{"railwatch.notify.>"},
		Retention: nats.WorkQueuePolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	},
}

// NewPublisher connects to NATS and makes sure the railwatch streams exist.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, err
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range streams {
		cfg := cfg
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js, now: time.Now}, nil
}

func (p *Publisher) PublishReportedSnapshot(ctx context.Context, entities []domain.TrackedEntity) error {
	return p.publishSnapshot(ctx, SubjectReportedSnapshot, domain.EntityReported, entities)
}

func (p *Publisher) PublishCameraSnapshot(ctx context.Context, entities []domain.TrackedEntity) error {
	return p.publishSnapshot(ctx, SubjectCameraSnapshot, domain.EntityCamera, entities)
}

func (p *Publisher) publishSnapshot(ctx context.Context, subject string, kind domain.EntityKind, entities []domain.TrackedEntity) error {
	data, err := EncodeSnapshot(kind, entities, p.now().UTC())
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishAlert(ctx context.Context, alert *domain.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(AlertSubject(alert.DeviceID), data, nats.Context(ctx))
	return err
}

func (p *Publisher) PublishStaffNotice(ctx context.Context, report *domain.HazardReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(SubjectStaffNotice, data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for components that share it.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("railwatch"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}
