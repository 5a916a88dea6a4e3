package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/taskspace/internal/store"
)

var checklistSpace string

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Manage checklists",
}

var checklistCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a checklist in a space",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			c, err := e.tree.CreateChecklist(ctx, checklistSpace, args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), c, func() string {
				return fmt.Sprintf("created checklist %q in %q %s", c.ChecklistTitle, c.SpaceTitle, c.ID)
			})
		})
	},
}

var checklistListCmd = &cobra.Command{
	Use:   "list",
	Short: "List checklists, optionally those of one space",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if checklistSpace != "" {
				res, err := e.tree.ChecklistsForSpace(ctx, checklistSpace)
				if err != nil {
					return err
				}
				return emit(cmd.OutOrStdout(), res, func() string {
					out := fmt.Sprintf("%s: %d checklists", res.Space.SpaceTitle, len(res.Checklists))
					for _, c := range res.Checklists {
						out += fmt.Sprintf("\n  %s (%d items) %s", c.ChecklistTitle, len(c.Items), c.ID)
					}
					return out
				})
			}
			lists, err := e.tree.ListChecklists(ctx, store.ChecklistFilter{})
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), lists, func() string {
				out := fmt.Sprintf("%d checklists", len(lists))
				for _, c := range lists {
					out += fmt.Sprintf("\n  %s (%d items) %s", c.ChecklistTitle, len(c.Items), c.ID)
				}
				return out
			})
		})
	},
}

var checklistDeleteCmd = &cobra.Command{
	Use:   "delete <title>",
	Short: "Delete a checklist with its items and steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if err := e.tree.DeleteChecklist(ctx, args[0]); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "checklist and all associated data deleted")
			return nil
		})
	},
}

func init() {
	checklistCreateCmd.Flags().StringVar(&checklistSpace, "space", "", "Exact title of the owning space")
	_ = checklistCreateCmd.MarkFlagRequired("space")
	checklistListCmd.Flags().StringVar(&checklistSpace, "space", "", "Only checklists of this space")

	checklistCmd.AddCommand(checklistCreateCmd, checklistListCmd, checklistDeleteCmd)
}
