package main

import (
	"context"
	"fmt"
	"io"

	"nomadoctor/internal"
	"nomadoctor/internal/temporal/workflows"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	temporalclient "go.temporal.io/sdk/client"
)

func newSubmitCmd(configPath *string) *cobra.Command {
	submitCmd := &cobra.Command{
		Use:   "submit",
		Short: "Run a backup or restore on a worker and wait for the result",
	}

	submitCmd.AddCommand(
		&cobra.Command{
			Use:   "backup [s3://bucket/key]",
			Short: "Submit a backup workflow",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var input workflows.BackupWorkflowInput
				if len(args) == 1 {
					input.Destination = args[0]
				}

				var out workflows.BackupWorkflowOutput
				if err := submit(cmd.Context(), *configPath, internal.WorkflowNameBackup, "backup", input, &out); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "backed up %d jobs, %d failed\n", out.Records, len(out.Failed))
				return nil
			},
		},
		&cobra.Command{
			Use:   "restore <file|s3://bucket/key>",
			Short: "Submit a restore workflow",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var out workflows.RestoreWorkflowOutput
				input := workflows.RestoreWorkflowInput{Source: args[0]}
				if err := submit(cmd.Context(), *configPath, internal.WorkflowNameRestore, "restore", input, &out); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "restored %d jobs, %d failed\n", len(out.Succeeded), len(out.Failed))
				return nil
			},
		},
	)

	return submitCmd
}

func submit(ctx context.Context, configPath, workflowName, operation string, input, output any) error {
	a, err := newApp(ctx, configPath, io.Discard)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := dialTemporal(ctx, a.cfg.Temporal, a.logger)
	if err != nil {
		return err
	}
	defer c.Close()

	options := temporalclient.StartWorkflowOptions{
		ID:        fmt.Sprintf("nomad-%s-%s", operation, uuid.NewString()),
		TaskQueue: a.cfg.Temporal.Queue,
	}

	run, err := c.ExecuteWorkflow(ctx, options, workflowName, input)
	if err != nil {
		return fmt.Errorf("failed to start %s workflow: %w", operation, err)
	}
	a.logger.Info().Str("workflowID", run.GetID()).Str("runID", run.GetRunID()).Msg("workflow started")

	if err := run.Get(ctx, output); err != nil {
		return fmt.Errorf("%s workflow failed: %w", operation, err)
	}
	return nil
}
