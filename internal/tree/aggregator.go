package tree

import (
	"context"
	"fmt"

	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// recomputeItem reloads the item's steps and folds them into its progress
// and status. An item without steps keeps whatever it had.
func recomputeItem(ctx context.Context, tx store.Repo, itemID string) (*model.Item, error) {
	item, err := tx.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	steps, err := tx.ListSteps(ctx, store.StepFilter{ItemID: &itemID})
	if err != nil {
		return nil, fmt.Errorf("loading steps of item %s: %w", itemID, err)
	}

	progress, status, ok := model.DeriveProgress(steps)
	if !ok {
		return item, nil
	}
	item.Progress = progress
	item.Status = status
	if err := tx.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// applyProgress sets a manual progress value and the status it implies.
func applyProgress(item *model.Item, progress int) {
	item.Progress = progress
	item.Status = model.StatusForProgress(progress)
}
