package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/railwatch/internal/adapters/nats"
	"github.com/samirrijal/railwatch/internal/adapters/postgres"
	temporaladapter "github.com/samirrijal/railwatch/internal/adapters/temporal"
	"github.com/samirrijal/railwatch/internal/core/usecases"
	"github.com/samirrijal/railwatch/internal/pkg/config"
	"github.com/samirrijal/railwatch/internal/pkg/logging"
	"github.com/samirrijal/railwatch/internal/workflows"
)

func main() {
	cfg, err := config.Load("railwatch-escalator")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("railwatch-escalator", cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	c, err := temporaladapter.Dial(cfg.Temporal.HostPort, cfg.Temporal.Namespace)
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	// Expiry runs outside the API, so no cache and no further scheduling.
	reports := usecases.NewReportService(postgres.NewReportRepo(db), pub, nil, nil, cfg.Reports.TTL)

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.ReportExpiryWorkflow)
	w.RegisterActivity(&workflows.ReportActivities{Reports: reports})

	slog.Info("escalator worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
