package main

import (
	"github.com/spf13/cobra"
)

func newBackupCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [s3://bucket/key]",
		Short: "Back up all non-periodic job definitions to stdout or S3",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			var destination string
			if len(args) == 1 {
				destination = args[0]
			}

			report, err := a.service.Backup(cmd.Context(), destination)
			if err != nil {
				return err
			}

			if len(report.Failed) > 0 {
				a.logger.Warn().Strs("failed", report.Failed).Msg("backup is missing some jobs")
			}
			return nil
		},
	}
}
