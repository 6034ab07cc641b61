package main

import (
	"github.com/spf13/cobra"
)

func newRestoreCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file|s3://bucket/key>",
		Short: "Redeploy every job in a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.service.Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if len(report.Failed) > 0 {
				a.logger.Warn().Strs("failed", report.Failed).Msg("some jobs were not restored")
			}
			return nil
		},
	}
}
