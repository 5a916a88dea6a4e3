package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/taskspace/internal/store"
)

var spaceAgent string

var spaceCmd = &cobra.Command{
	Use:   "space",
	Short: "Manage spaces",
}

var spaceCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a space owned by an agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			a, err := e.tree.GetAgent(ctx, spaceAgent)
			if err != nil {
				return err
			}
			sp, err := e.tree.CreateSpace(ctx, a.ID, args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), sp, func() string {
				return fmt.Sprintf("created space %q for %s %s", sp.SpaceTitle, a.Name, sp.ID)
			})
		})
	},
}

var spaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List spaces, optionally those of one agent",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if spaceAgent != "" {
				res, err := e.tree.SpacesForAgent(ctx, spaceAgent)
				if err != nil {
					return err
				}
				return emit(cmd.OutOrStdout(), res, func() string {
					out := fmt.Sprintf("%s: %d spaces", res.Agent.Name, len(res.Spaces))
					for _, sp := range res.Spaces {
						out += fmt.Sprintf("\n  %s (%d checklists)", sp.SpaceTitle, len(sp.Checklists))
					}
					return out
				})
			}
			spaces, err := e.tree.ListSpaces(ctx, store.SpaceFilter{})
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), spaces, func() string {
				out := fmt.Sprintf("%d spaces", len(spaces))
				for _, sp := range spaces {
					out += fmt.Sprintf("\n  %s (%d checklists)", sp.SpaceTitle, len(sp.Checklists))
				}
				return out
			})
		})
	},
}

var spaceDeleteCmd = &cobra.Command{
	Use:   "delete <title>",
	Short: "Delete a space with its checklists, items and steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if err := e.tree.DeleteSpace(ctx, args[0]); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "space and all associated data deleted")
			return nil
		})
	},
}

func init() {
	spaceCreateCmd.Flags().StringVar(&spaceAgent, "agent", "", "Owning agent name")
	_ = spaceCreateCmd.MarkFlagRequired("agent")
	spaceListCmd.Flags().StringVar(&spaceAgent, "agent", "", "Only spaces of this agent")

	spaceCmd.AddCommand(spaceCreateCmd, spaceListCmd, spaceDeleteCmd)
}
