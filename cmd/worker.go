package main

import (
	"nomadoctor/internal"
	"nomadoctor/internal/temporal/activities"
	"nomadoctor/internal/temporal/workflows"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

func newWorkerCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run backups and restores submitted through Temporal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := dialTemporal(cmd.Context(), a.cfg.Temporal, a.logger)
			if err != nil {
				return err
			}
			defer c.Close()

			w := worker.New(c, a.cfg.Temporal.Queue, worker.Options{})

			w.RegisterWorkflowWithOptions(workflows.BackupWorkflow, workflow.RegisterOptions{Name: internal.WorkflowNameBackup})
			w.RegisterWorkflowWithOptions(workflows.RestoreWorkflow, workflow.RegisterOptions{Name: internal.WorkflowNameRestore})
			w.RegisterActivity(activities.NewActivities(a.service))

			a.logger.Info().Str("queue", a.cfg.Temporal.Queue).Msg("worker started")

			// Start listening to the Task Queue.
			return w.Run(worker.InterruptCh())
		},
	}
}
