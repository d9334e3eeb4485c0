package workflows

import (
	"context"
	"fmt"
)

// ReportLifecycle is what the activities need from the report service.
type ReportLifecycle interface {
	NotifyStaff(ctx context.Context, id string) error
	Expire(ctx context.Context, id string) error
}

// ReportActivities holds the activity implementations for ReportExpiryWorkflow.
type ReportActivities struct {
	Reports ReportLifecycle
}

// NotifyStationStaff publishes a notice about the report to station staff.
func (a *ReportActivities) NotifyStationStaff(ctx context.Context, reportID string) error {
	if err := a.Reports.NotifyStaff(ctx, reportID); err != nil {
		return fmt.Errorf("notify staff about %s: %w", reportID, err)
	}
	return nil
}

// ExpireReport marks the report expired and republishes the hazard set.
func (a *ReportActivities) ExpireReport(ctx context.Context, reportID string) error {
	if err := a.Reports.Expire(ctx, reportID); err != nil {
		return fmt.Errorf("expire %s: %w", reportID, err)
	}
	return nil
}
