package resync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/services"
)

func newTestTrigger(t *testing.T, c temporalsdkclient.Client) *Trigger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return NewTrigger(log, c, "test-queue")
}

func TestTriggerStartsWorkflow(t *testing.T) {
	userID, resultID := uuid.New(), uuid.New()
	c := &mocks.Client{}
	run := &mocks.WorkflowRun{}
	run.On("GetRunID").Return("run-1")
	c.On("ExecuteWorkflow", mock.Anything, mock.MatchedBy(func(o temporalsdkclient.StartWorkflowOptions) bool {
		return o.ID == WorkflowID(userID, resultID) && o.TaskQueue == "test-queue"
	}), WorkflowName, Input{UserID: userID.String(), PersonalityResultID: resultID.String()}).Return(run, nil)

	require.NoError(t, newTestTrigger(t, c).OnPersonalityResultChanged(context.Background(), userID, resultID))
	c.AssertExpectations(t)
}

func TestTriggerTreatsAlreadyStartedAsSuccess(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, WorkflowName, mock.Anything).
		Return(nil, serviceerror.NewWorkflowExecutionAlreadyStarted("running", "", ""))

	err := newTestTrigger(t, c).OnPersonalityResultChanged(context.Background(), uuid.New(), uuid.New())
	assert.NoError(t, err)
}

func TestTriggerReportsStartFailure(t *testing.T) {
	c := &mocks.Client{}
	c.On("ExecuteWorkflow", mock.Anything, mock.Anything, WorkflowName, mock.Anything).
		Return(nil, errors.New("frontend down"))

	err := newTestTrigger(t, c).OnPersonalityResultChanged(context.Background(), uuid.New(), uuid.New())
	assert.Error(t, err)
}

func TestTriggerValidatesIDs(t *testing.T) {
	err := newTestTrigger(t, &mocks.Client{}).OnPersonalityResultChanged(context.Background(), uuid.Nil, uuid.New())
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}
