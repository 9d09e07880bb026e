package resync

import (
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

func workflowRegisterOptions() workflow.RegisterOptions {
	return workflow.RegisterOptions{Name: WorkflowName}
}

// Register adds the resync workflow and its activities to w.
func Register(w worker.Registry, acts *Activities) {
	w.RegisterWorkflowWithOptions(Workflow, workflowRegisterOptions())
	w.RegisterActivityWithOptions(acts.Demote, activity.RegisterOptions{Name: ActivityDemote})
	w.RegisterActivityWithOptions(acts.Promote, activity.RegisterOptions{Name: ActivityPromote})
}
