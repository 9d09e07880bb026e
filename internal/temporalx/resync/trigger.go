package resync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/services"
)

// Trigger starts the resync workflow for a personality change. One workflow
// ID per (user, result) absorbs duplicate triggers while a run is in flight.
type Trigger struct {
	client    temporalsdkclient.Client
	taskQueue string
	log       *logger.Logger
}

var _ services.ResyncTrigger = (*Trigger)(nil)

func NewTrigger(baseLog *logger.Logger, c temporalsdkclient.Client, taskQueue string) *Trigger {
	return &Trigger{client: c, taskQueue: taskQueue, log: baseLog.With("service", "ResyncTrigger")}
}

func WorkflowID(userID, resultID uuid.UUID) string {
	return fmt.Sprintf("reco-resync:%s:%s", userID, resultID)
}

func (t *Trigger) OnPersonalityResultChanged(ctx context.Context, userID, resultID uuid.UUID) error {
	if t == nil || t.client == nil {
		return fmt.Errorf("temporal not configured (TEMPORAL_ADDRESS)")
	}
	if userID == uuid.Nil || resultID == uuid.Nil {
		return fmt.Errorf("%w: missing user_id or personality_result_id", services.ErrInvalidInput)
	}
	opts := temporalsdkclient.StartWorkflowOptions{
		ID:        WorkflowID(userID, resultID),
		TaskQueue: t.taskQueue,
	}
	run, err := t.client.ExecuteWorkflow(ctx, opts, WorkflowName, Input{
		UserID:              userID.String(),
		PersonalityResultID: resultID.String(),
	})
	if err != nil {
		var already *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &already) {
			return nil
		}
		return fmt.Errorf("start personality resync: %w", err)
	}
	t.log.Info("Personality resync dispatched", "user_id", userID, "personality_result_id", resultID, "run_id", run.GetRunID())
	return nil
}
