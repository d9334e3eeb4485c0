package temporaladapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"github.com/samirrijal/railwatch/internal/workflows"
)

func TestScheduleExpiry(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow",
		mock.Anything,
		mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
			return o.ID == "report-expiry-r1" && o.TaskQueue == "report-expiry"
		}),
		mock.Anything,
		workflows.ReportExpiryInput{ReportID: "r1", TTL: 6 * time.Hour},
	).Return(&mocks.WorkflowRun{}, nil).Once()

	s := NewScheduler(c, "report-expiry")
	assert.NoError(t, s.ScheduleExpiry(context.Background(), "r1", 6*time.Hour))
	c.AssertExpectations(t)
}

func TestScheduleExpiry_Error(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("frontend unavailable"))

	s := NewScheduler(c, "report-expiry")
	err := s.ScheduleExpiry(context.Background(), "r1", time.Hour)
	assert.ErrorContains(t, err, "frontend unavailable")
}
