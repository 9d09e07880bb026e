package resync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/nurture-backend/internal/observability"
	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/services"
)

type Activities struct {
	Log  *logger.Logger
	Reco services.RecommendationService
}

func (a *Activities) Demote(ctx context.Context, in Input) (int, error) {
	userID, _, err := a.parse(in)
	if err != nil {
		return 0, err
	}
	n, err := a.Reco.DemoteQueuedPersonalityPicks(ctx, userID)
	if err != nil {
		observability.RecordResyncPhase(services.ResyncPhaseDemote, "error")
		return 0, classify(err)
	}
	observability.RecordResyncPhase(services.ResyncPhaseDemote, "ok")
	a.Log.Debug("Demoted personality rows", "user_id", userID, "count", n)
	return n, nil
}

func (a *Activities) Promote(ctx context.Context, in Input) (services.PromoteReport, error) {
	userID, resultID, err := a.parse(in)
	if err != nil {
		return services.PromoteReport{}, err
	}
	report, err := a.Reco.PromotePersonalityPicks(ctx, userID, resultID)
	if err != nil {
		observability.RecordResyncPhase(services.ResyncPhasePromote, "error")
		return report, classify(err)
	}
	observability.RecordResyncPhase(services.ResyncPhasePromote, "ok")
	return report, nil
}

func (a *Activities) parse(in Input) (uuid.UUID, uuid.UUID, error) {
	if a == nil || a.Reco == nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("resync: activity not configured")
	}
	userID, err := uuid.Parse(in.UserID)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, uuid.Nil, temporal.NewNonRetryableApplicationError("invalid user_id", "InvalidInput", err)
	}
	resultID, err := uuid.Parse(in.PersonalityResultID)
	if err != nil || resultID == uuid.Nil {
		return uuid.Nil, uuid.Nil, temporal.NewNonRetryableApplicationError("invalid personality_result_id", "InvalidInput", err)
	}
	return userID, resultID, nil
}

// classify stops retries for caller errors; everything else is retried by
// the activity retry policy.
func classify(err error) error {
	if errors.Is(err, services.ErrInvalidInput) {
		return temporal.NewNonRetryableApplicationError(err.Error(), "InvalidInput", err)
	}
	return err
}
