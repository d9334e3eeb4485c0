package temporaladapter

import (
	"context"
	"fmt"
	"time"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/railwatch/internal/workflows"
)

// Scheduler implements ports.ExpiryScheduler by starting ReportExpiryWorkflow.
type Scheduler struct {
	client    client.Client
	taskQueue string
}

// NewScheduler wraps a connected Temporal client.
func NewScheduler(c client.Client, taskQueue string) *Scheduler {
	return &Scheduler{client: c, taskQueue: taskQueue}
}

// Dial connects to the Temporal frontend.
func Dial(hostPort, namespace string) (client.Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  hostPort,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("temporal dial: %w", err)
	}
	return c, nil
}

// WorkflowID is the id used for a report's expiry workflow.
func WorkflowID(reportID string) string {
	return "report-expiry-" + reportID
}

// ScheduleExpiry starts one expiry workflow per report. Starting it twice is
// rejected by Temporal, which keeps retries from doubling up.
func (s *Scheduler) ScheduleExpiry(ctx context.Context, reportID string, ttl time.Duration) error {
	opts := client.StartWorkflowOptions{
		ID:                    WorkflowID(reportID),
		TaskQueue:             s.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	_, err := s.client.ExecuteWorkflow(ctx, opts, workflows.ReportExpiryWorkflow, workflows.ReportExpiryInput{
		ReportID: reportID,
		TTL:      ttl,
	})
	if err != nil {
		return fmt.Errorf("start expiry workflow for %s: %w", reportID, err)
	}
	return nil
}
