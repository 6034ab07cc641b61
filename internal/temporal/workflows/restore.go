package workflows

import (
	"nomadoctor/internal"
	"nomadoctor/internal/temporal/activities"

	"go.temporal.io/sdk/workflow"
)

type RestoreWorkflowInput struct {
	Source string `json:"source"`
}

type RestoreWorkflowOutput struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

// RestoreWorkflow redeploys every job in the artifact at input.Source
func RestoreWorkflow(ctx workflow.Context, input RestoreWorkflowInput) (*RestoreWorkflowOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("RestoreWorkflow started", "source", input.Source)

	ctx = workflow.WithActivityOptions(ctx, activityOptions())

	var restoreOutput activities.RestoreJobsActivityOutput
	err := workflow.ExecuteActivity(
		ctx,
		internal.ActivityNameRestoreJobs,
		activities.RestoreJobsActivityInput{Source: input.Source},
	).Get(ctx, &restoreOutput)
	if err != nil {
		logger.Error("Failed to restore jobs", "error", err)
		return nil, err
	}

	logger.Info("RestoreWorkflow completed", "succeeded", len(restoreOutput.Succeeded), "failed", len(restoreOutput.Failed))
	return &RestoreWorkflowOutput{
		Succeeded: restoreOutput.Succeeded,
		Failed:    restoreOutput.Failed,
	}, nil
}
