package tree

import (
	"context"
	"log/slog"

	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// cascadeCounts tallies what a cascade removed.
type cascadeCounts struct {
	Spaces     int
	Checklists int
	Items      int
	Steps      int
}

func (c cascadeCounts) attrs() []any {
	return []any{
		slog.Int("spaces", c.Spaces),
		slog.Int("checklists", c.Checklists),
		slog.Int("items", c.Items),
		slog.Int("steps", c.Steps),
	}
}

// Each delete*Tree routine runs inside the caller's transaction. Children
// are enumerated by their owner column, deleted through their own routine,
// then the node is pulled from its parent's membership list and removed.
// The first failure aborts the walk and the caller's WithTx rolls back.

func deleteAgentTree(ctx context.Context, tx store.Repo, agent *model.Agent, c *cascadeCounts) error {
	spaces, err := tx.ListSpaces(ctx, store.SpaceFilter{AgentID: &agent.ID})
	if err != nil {
		return err
	}
	for i := range spaces {
		if err := deleteSpaceTree(ctx, tx, &spaces[i], c); err != nil {
			return err
		}
	}
	return tx.DeleteAgent(ctx, agent.ID)
}

func deleteSpaceTree(ctx context.Context, tx store.Repo, space *model.Space, c *cascadeCounts) error {
	checklists, err := tx.ListChecklists(ctx, store.ChecklistFilter{SpaceID: &space.ID})
	if err != nil {
		return err
	}
	for i := range checklists {
		if err := deleteChecklistTree(ctx, tx, &checklists[i], c); err != nil {
			return err
		}
	}
	if err := tx.PullAgentSpace(ctx, space.AgentID, space.ID); err != nil {
		return err
	}
	if err := tx.DeleteSpace(ctx, space.ID); err != nil {
		return err
	}
	c.Spaces++
	return nil
}

func deleteChecklistTree(ctx context.Context, tx store.Repo, checklist *model.Checklist, c *cascadeCounts) error {
	items, err := tx.ListItems(ctx, store.ItemFilter{ChecklistID: &checklist.ID})
	if err != nil {
		return err
	}
	for i := range items {
		if err := deleteItemTree(ctx, tx, &items[i], c); err != nil {
			return err
		}
	}
	if err := tx.PullSpaceChecklist(ctx, checklist.SpaceID, checklist.ID); err != nil {
		return err
	}
	if err := tx.DeleteChecklist(ctx, checklist.ID); err != nil {
		return err
	}
	c.Checklists++
	return nil
}

func deleteItemTree(ctx context.Context, tx store.Repo, item *model.Item, c *cascadeCounts) error {
	steps, err := tx.ListSteps(ctx, store.StepFilter{ItemID: &item.ID})
	if err != nil {
		return err
	}
	for _, st := range steps {
		if err := tx.DeleteStep(ctx, st.ID); err != nil {
			return err
		}
		c.Steps++
	}
	if err := tx.PullChecklistItem(ctx, item.ChecklistID, item.ID); err != nil {
		return err
	}
	if item.CategoryID != nil {
		if err := tx.PullCategoryItem(ctx, *item.CategoryID, item.ID); err != nil {
			return err
		}
	}
	if err := tx.DeleteItem(ctx, item.ID); err != nil {
		return err
	}
	c.Items++
	return nil
}
