package resync

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow demotes the user's queued personality rows and then applies the
// new result's picks. A failed demotion is recorded and does not block the
// promotion.
func Workflow(ctx workflow.Context, in Input) (Result, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	})
	log := workflow.GetLogger(ctx)
	var out Result

	if err := workflow.ExecuteActivity(ctx, ActivityDemote, in).Get(ctx, &out.Demoted); err != nil {
		out.DemoteError = err.Error()
		log.Warn("Demote phase failed; continuing", "user_id", in.UserID, "error", err)
	}
	if err := workflow.ExecuteActivity(ctx, ActivityPromote, in).Get(ctx, &out.Promote); err != nil {
		return out, err
	}
	log.Info("Personality resync finished",
		"user_id", in.UserID,
		"personality_result_id", in.PersonalityResultID,
		"demoted", out.Demoted,
		"promoted", out.Promote.Promoted,
		"created", out.Promote.Created,
	)
	return out, nil
}
