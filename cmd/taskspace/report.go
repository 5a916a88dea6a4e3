package main

import (
	"context"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summaries across the task tree",
}

var reportProductivityCmd = &cobra.Command{
	Use:   "productivity <agent-id>",
	Short: "Item counts and completion rate for one agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			p, err := e.reports.AgentProductivity(ctx, args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), p, func() string { return renderProductivity(p) })
		})
	},
}

var reportChecklistCmd = &cobra.Command{
	Use:   "checklist <checklist-id>",
	Short: "Item and step progress for one checklist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			c, err := e.reports.ChecklistProgress(ctx, args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), c, func() string { return renderChecklistProgress(c) })
		})
	},
}

var reportDeadlinesCmd = &cobra.Command{
	Use:   "deadlines",
	Short: "Deadline buckets, priority breakdown and alerts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			d, err := e.reports.DeadlineAnalysis(ctx)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), d, func() string { return renderDeadlines(d) })
		})
	},
}

var reportSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "Every space with its owner and checklists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			spaces, err := e.reports.SpaceOverview(ctx)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), spaces, func() string { return renderSpaceOverview(spaces) })
		})
	},
}

func init() {
	reportCmd.AddCommand(reportProductivityCmd, reportChecklistCmd, reportDeadlinesCmd, reportSpacesCmd)
}
