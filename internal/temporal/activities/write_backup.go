package activities

import (
	"context"
	"time"

	"nomadoctor/internal/backup"

	"go.temporal.io/sdk/activity"
)

type WriteBackupActivityInput struct {
	Records     []string `json:"records"`
	Destination string   `json:"destination"` // s3:// location; empty prints to the worker's stdout

	// Outcome of the fetch step, recorded in the run history
	Succeeded []string  `json:"succeeded"`
	Failed    []string  `json:"failed"`
	StartedAt time.Time `json:"started_at"`
}

type WriteBackupActivityOutput struct {
	Records int `json:"records"`
}

func (a *Activities) WriteBackupActivity(ctx context.Context, input WriteBackupActivityInput) (*WriteBackupActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("WriteBackupActivity called", "destination", input.Destination)

	if err := a.Backup.WriteBackup(ctx, input.Records, input.Destination); err != nil {
		return nil, err
	}

	started := input.StartedAt
	if started.IsZero() {
		started = activity.GetInfo(ctx).StartedTime
	}
	a.Backup.RecordBackup(ctx, input.Destination, backup.Report{
		Succeeded: input.Succeeded,
		Failed:    input.Failed,
	}, started)

	logger.Info("Backup written", "records", len(input.Records))
	return &WriteBackupActivityOutput{Records: len(input.Records)}, nil
}
