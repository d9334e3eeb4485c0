package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/railwatch/internal/core/usecases"
)

// Pinger is anything readiness can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Reports    *usecases.ReportService
	Detections *usecases.DetectionService
	Sessions   *usecases.SessionService
	NATS       *nats.Conn
	DB         Pinger
	Cache      Pinger
}
