package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/taskspace/internal/store"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			c, err := e.tree.CreateCategory(ctx, args[0])
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), c, func() string {
				return fmt.Sprintf("created category %q %s", c.CategoryName, c.ID)
			})
		})
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			cats, err := e.tree.ListCategories(ctx, store.CategoryFilter{})
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), cats, func() string {
				out := fmt.Sprintf("%d categories", len(cats))
				for _, c := range cats {
					out += fmt.Sprintf("\n  %s (%d items)", c.CategoryName, len(c.Items))
				}
				return out
			})
		})
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a category; its items keep existing without one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			n, err := e.tree.DeleteCategory(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"items_updated": n})
			}
			done(cmd.OutOrStdout(), fmt.Sprintf("category deleted, %d items updated", n))
			return nil
		})
	},
}

func init() {
	categoryCmd.AddCommand(categoryCreateCmd, categoryListCmd, categoryDeleteCmd)
}
