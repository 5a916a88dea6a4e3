package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/theme"
)

var (
	stepItem   string
	stepStatus string
)

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Manage steps",
}

func stepLine(s *model.Step) string {
	return fmt.Sprintf("%s  %s  %s", s.StepName, theme.StatusStyle(s.Status).Render(s.Status), theme.MutedStyle.Render(s.ID))
}

var stepCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Add a step to an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			it, err := e.tree.GetItem(ctx, stepItem)
			if err != nil {
				return err
			}
			s, err := e.tree.CreateStep(ctx, it.ID, args[0], stepStatus)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), s, func() string { return "created " + stepLine(s) })
		})
	},
}

var stepListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an item's steps with statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			res, err := e.tree.StepsForItem(ctx, stepItem)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), res, func() string { return renderItemSteps(res) })
		})
	},
}

var stepStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Set a step's status and recompute its item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			s, err := e.tree.UpdateStepStatus(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), s, func() string { return stepLine(s) })
		})
	},
}

var stepDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if err := e.tree.DeleteStep(ctx, args[0]); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "step deleted")
			return nil
		})
	},
}

func init() {
	stepCreateCmd.Flags().StringVar(&stepItem, "item", "", "Item name")
	stepCreateCmd.Flags().StringVar(&stepStatus, "status", "", "Initial status (default Pending)")
	_ = stepCreateCmd.MarkFlagRequired("item")

	stepListCmd.Flags().StringVar(&stepItem, "item", "", "Item name")
	_ = stepListCmd.MarkFlagRequired("item")

	stepCmd.AddCommand(stepCreateCmd, stepListCmd, stepStatusCmd, stepDeleteCmd)
}
