package activities

import (
	"context"

	"go.temporal.io/sdk/activity"
)

type RestoreJobsActivityInput struct {
	Source string `json:"source"`
}

type RestoreJobsActivityOutput struct {
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

func (a *Activities) RestoreJobsActivity(ctx context.Context, input RestoreJobsActivityInput) (*RestoreJobsActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("RestoreJobsActivity called", "source", input.Source)

	report, err := a.Backup.Restore(ctx, input.Source)
	if err != nil {
		return nil, err
	}

	logger.Info("Jobs restored", "succeeded", len(report.Succeeded), "failed", len(report.Failed))
	return &RestoreJobsActivityOutput{
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	}, nil
}
