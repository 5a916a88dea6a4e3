package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
	"github.com/nhle/taskspace/internal/tree"
)

var (
	itemChecklist   string
	itemDescription string
	itemPriority    string
	itemDeadline    string
	itemCategory    string
)

// parseDeadline reads --deadline. Date-only values are local midnight.
func parseDeadline(s string) (model.Deadline, error) {
	t, err := model.ParseDeadline(s, time.Local)
	if err != nil {
		return model.Deadline{}, apperr.Validation("parse deadline", "%s", err.Error())
	}
	return model.Deadline{Time: t}, nil
}

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage items",
}

var itemCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an item in a checklist",
	Long: `Create an item in a checklist.

Examples:
  taskspace item create "Fix login" --checklist Sprint1 --priority High --deadline 2025-07-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deadline, err := parseDeadline(itemDeadline)
		if err != nil {
			return err
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			cl, err := e.tree.GetChecklist(ctx, itemChecklist)
			if err != nil {
				return err
			}
			in := tree.ItemInput{
				Name:        args[0],
				Description: itemDescription,
				Priority:    itemPriority,
				Deadline:    deadline,
				ChecklistID: cl.ID,
			}
			if itemCategory != "" {
				cat, err := e.tree.GetCategory(ctx, itemCategory)
				if err != nil {
					return err
				}
				in.CategoryID = cat.ID
			}
			it, err := e.tree.CreateItem(ctx, in)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), it, func() string {
				return "created " + itemLine(*it) + " " + it.ID
			})
		})
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items, or a checklist's items with statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if itemChecklist != "" {
				res, err := e.tree.ItemsForChecklist(ctx, itemChecklist)
				if err != nil {
					return err
				}
				return emit(cmd.OutOrStdout(), res, func() string { return renderChecklistItems(res) })
			}
			var f store.ItemFilter
			if itemPriority != "" {
				f.Priority = &itemPriority
			}
			items, err := e.tree.ListItems(ctx, f)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), items, func() string {
				out := fmt.Sprintf("%d items", len(items))
				for _, it := range items {
					out += "\n  " + itemLine(it)
				}
				return out
			})
		})
	},
}

var itemProgressCmd = &cobra.Command{
	Use:   "progress <id> <percent>",
	Short: "Set an item's progress by hand",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := strconv.Atoi(args[1])
		if err != nil {
			return apperr.Validation("set progress", "progress must be a whole number")
		}
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			it, err := e.tree.SetItemProgress(ctx, args[0], p)
			if err != nil {
				return err
			}
			return emit(cmd.OutOrStdout(), it, func() string { return itemLine(*it) })
		})
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete an item with its steps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(ctx context.Context, e *env) error {
			if err := e.tree.DeleteItem(ctx, args[0]); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "item and all associated steps deleted")
			return nil
		})
	},
}

func init() {
	f := itemCreateCmd.Flags()
	f.StringVar(&itemChecklist, "checklist", "", "Checklist title")
	f.StringVar(&itemDescription, "description", "", "Description")
	f.StringVar(&itemPriority, "priority", "", "Low, Medium, High or Urgent (default Medium)")
	f.StringVar(&itemDeadline, "deadline", "", "Deadline, YYYY-MM-DD or RFC 3339")
	f.StringVar(&itemCategory, "category", "", "Category name")
	_ = itemCreateCmd.MarkFlagRequired("checklist")

	itemListCmd.Flags().StringVar(&itemChecklist, "checklist", "", "Only items of this checklist")
	itemListCmd.Flags().StringVar(&itemPriority, "priority", "", "Filter by priority")

	itemCmd.AddCommand(itemCreateCmd, itemListCmd, itemProgressCmd, itemDeleteCmd)
}
