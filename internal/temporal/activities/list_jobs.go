package activities

import (
	"context"

	"nomadoctor/internal/backup"

	"go.temporal.io/sdk/activity"
)

type ListJobsActivityInput struct{}

type ListJobsActivityOutput struct {
	Names []string `json:"names"`
}

func (a *Activities) ListJobsActivity(ctx context.Context, input ListJobsActivityInput) (*ListJobsActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("ListJobsActivity called")

	jobs, err := a.Backup.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	result := &ListJobsActivityOutput{Names: backup.JobNames(jobs)}
	logger.Info("Jobs listed", "count", len(result.Names))
	return result, nil
}
