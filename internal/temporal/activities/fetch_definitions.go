package activities

import (
	"context"

	"go.temporal.io/sdk/activity"
)

type FetchDefinitionsActivityInput struct {
	Names []string `json:"names"`
}

type FetchDefinitionsActivityOutput struct {
	Records   []string `json:"records"`
	Succeeded []string `json:"succeeded"`
	Failed    []string `json:"failed"`
}

func (a *Activities) FetchDefinitionsActivity(ctx context.Context, input FetchDefinitionsActivityInput) (*FetchDefinitionsActivityOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Debug("FetchDefinitionsActivity called", "count", len(input.Names))

	records, report := a.Backup.FetchDefinitions(ctx, input.Names)

	result := &FetchDefinitionsActivityOutput{
		Records:   records,
		Succeeded: report.Succeeded,
		Failed:    report.Failed,
	}

	if len(result.Failed) > 0 {
		logger.Warn("Some job definitions could not be fetched", "failed", result.Failed)
	}
	return result, nil
}
