package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// TaskQueue is the default queue the escalator worker listens on.
const TaskQueue = "report-expiry"

// ReportExpiryInput is the input for the report expiry workflow.
type ReportExpiryInput struct {
	ReportID string
	TTL      time.Duration
}

// ReportExpiryWorkflow alerts station staff about a new report, waits for the
// report's TTL, then expires it so it drops out of the live hazard set.
// Staff notification is best-effort; expiry is not.
func ReportExpiryWorkflow(ctx workflow.Context, input ReportExpiryInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting report expiry workflow", "reportID", input.ReportID, "ttl", input.TTL)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	err := workflow.ExecuteActivity(ctx, "NotifyStationStaff", input.ReportID).Get(ctx, nil)
	if err != nil {
		logger.Warn("staff notification failed", "reportID", input.ReportID, "error", err)
	}

	if err := workflow.Sleep(ctx, input.TTL); err != nil {
		return err
	}

	if err := workflow.ExecuteActivity(ctx, "ExpireReport", input.ReportID).Get(ctx, nil); err != nil {
		return err
	}

	logger.Info("Report expired", "reportID", input.ReportID)
	return nil
}
