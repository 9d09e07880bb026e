package resync

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/yungbote/nurture-backend/internal/platform/logger"
	"github.com/yungbote/nurture-backend/internal/services"
)

type fakeReco struct {
	services.RecommendationService
	demoteErr  error
	promoteErr error
	demoted    int
	report     services.PromoteReport
	calls      []string
}

func (f *fakeReco) DemoteQueuedPersonalityPicks(context.Context, uuid.UUID) (int, error) {
	f.calls = append(f.calls, "demote")
	return f.demoted, f.demoteErr
}

func (f *fakeReco) PromotePersonalityPicks(context.Context, uuid.UUID, uuid.UUID) (services.PromoteReport, error) {
	f.calls = append(f.calls, "promote")
	return f.report, f.promoteErr
}

func runWorkflow(t *testing.T, reco *fakeReco, in Input) (Result, error) {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := &Activities{Log: log, Reco: reco}
	env.RegisterWorkflowWithOptions(Workflow, workflowRegisterOptions())
	env.RegisterActivityWithOptions(acts.Demote, activity.RegisterOptions{Name: ActivityDemote})
	env.RegisterActivityWithOptions(acts.Promote, activity.RegisterOptions{Name: ActivityPromote})

	env.ExecuteWorkflow(WorkflowName, in)
	require.True(t, env.IsWorkflowCompleted())
	if err := env.GetWorkflowError(); err != nil {
		return Result{}, err
	}
	var out Result
	require.NoError(t, env.GetWorkflowResult(&out))
	return out, nil
}

func validInput() Input {
	return Input{UserID: uuid.NewString(), PersonalityResultID: uuid.NewString()}
}

func TestWorkflowDemotesThenPromotes(t *testing.T) {
	reco := &fakeReco{demoted: 2, report: services.PromoteReport{Picks: 3, Promoted: 1, Created: 2}}
	out, err := runWorkflow(t, reco, validInput())
	require.NoError(t, err)
	assert.Equal(t, []string{"demote", "promote"}, reco.calls)
	assert.Equal(t, 2, out.Demoted)
	assert.Equal(t, 2, out.Promote.Created)
	assert.Empty(t, out.DemoteError)
}

func TestWorkflowContinuesAfterDemoteFailure(t *testing.T) {
	reco := &fakeReco{demoteErr: services.ErrInvalidInput, report: services.PromoteReport{Picks: 1, Created: 1}}
	out, err := runWorkflow(t, reco, validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, out.DemoteError)
	assert.Equal(t, 1, out.Promote.Created)
	assert.Contains(t, reco.calls, "promote")
}

func TestWorkflowFailsWhenPromoteFails(t *testing.T) {
	reco := &fakeReco{promoteErr: errors.Join(services.ErrInvalidInput, errors.New("no picks"))}
	_, err := runWorkflow(t, reco, validInput())
	require.Error(t, err)
}

func TestWorkflowRejectsBadIDs(t *testing.T) {
	reco := &fakeReco{}
	_, err := runWorkflow(t, reco, Input{UserID: "nope", PersonalityResultID: uuid.NewString()})
	require.Error(t, err)
	assert.Empty(t, reco.calls)
}
