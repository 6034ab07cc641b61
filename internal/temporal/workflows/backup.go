package workflows

import (
	"nomadoctor/internal"
	"nomadoctor/internal/temporal/activities"

	"go.temporal.io/sdk/workflow"
)

type BackupWorkflowInput struct {
	Destination string `json:"destination"`
}

type BackupWorkflowOutput struct {
	Records int      `json:"records"`
	Failed  []string `json:"failed"`
}

// BackupWorkflow lists, fetches and writes job definitions
func BackupWorkflow(ctx workflow.Context, input BackupWorkflowInput) (*BackupWorkflowOutput, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("BackupWorkflow started", "destination", input.Destination)
	started := workflow.Now(ctx)

	ctx = workflow.WithActivityOptions(ctx, activityOptions())

	////////////////////////////////////////
	// 1. List jobs, skipping periodic children
	////////////////////////////////////////
	var listJobsOutput activities.ListJobsActivityOutput
	err := workflow.ExecuteActivity(
		ctx,
		internal.ActivityNameListJobs,
		activities.ListJobsActivityInput{},
	).Get(ctx, &listJobsOutput)
	if err != nil {
		logger.Error("Failed to list jobs", "error", err)
		return nil, err
	}

	////////////////////////////////////////
	// 2. Fetch and encode definitions
	////////////////////////////////////////
	var fetchOutput activities.FetchDefinitionsActivityOutput
	err = workflow.ExecuteActivity(
		ctx,
		internal.ActivityNameFetchDefinitions,
		activities.FetchDefinitionsActivityInput{Names: listJobsOutput.Names},
	).Get(ctx, &fetchOutput)
	if err != nil {
		logger.Error("Failed to fetch job definitions", "error", err)
		return nil, err
	}

	////////////////////////////////////////
	// 3. Write the artifact and record the run
	////////////////////////////////////////
	var writeOutput activities.WriteBackupActivityOutput
	err = workflow.ExecuteActivity(
		ctx,
		internal.ActivityNameWriteBackup,
		activities.WriteBackupActivityInput{
			Records:     fetchOutput.Records,
			Destination: input.Destination,
			Succeeded:   fetchOutput.Succeeded,
			Failed:      fetchOutput.Failed,
			StartedAt:   started,
		},
	).Get(ctx, &writeOutput)
	if err != nil {
		logger.Error("Failed to write backup", "error", err)
		return nil, err
	}

	logger.Info("BackupWorkflow completed", "records", writeOutput.Records, "failed", len(fetchOutput.Failed))
	return &BackupWorkflowOutput{
		Records: writeOutput.Records,
		Failed:  fetchOutput.Failed,
	}, nil
}
