package tree

import (
	"context"
	"sort"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// ItemInput carries the fields of a new item. Empty Priority and Status
// take their defaults; a Progress without a Status derives the status.
type ItemInput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Priority    string         `json:"priority"`
	Status      string         `json:"status"`
	Progress    *int           `json:"progress"`
	Deadline    model.Deadline `json:"deadline"`
	ChecklistID string         `json:"checklist_id"`
	CategoryID  string         `json:"category_id"`
}

// ItemPatch holds the fields an item update may change. A CategoryID of ""
// removes the item from its category and a Deadline of "" removes its
// deadline; null leaves either alone. When both Status and Progress are
// set, the explicit Status wins.
type ItemPatch struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Priority    *string         `json:"priority"`
	Status      *string         `json:"status"`
	Progress    *int            `json:"progress"`
	Deadline    *model.Deadline `json:"deadline"`
	CategoryID  *string         `json:"category_id"`
}

// ItemStats summarizes the items of one checklist.
type ItemStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"in_progress"`
	Pending        int `json:"pending"`
	HighPriority   int `json:"high_priority"`
	Overdue        int `json:"overdue"`
	CompletionRate int `json:"completion_rate"`
}

// ChecklistItems is a checklist with its items and their statistics.
type ChecklistItems struct {
	Checklist  model.Checklist `json:"checklist"`
	Statistics ItemStats       `json:"statistics"`
	Items      []model.Item    `json:"items"`
}

// percent returns round(100*part/whole), or 0 for an empty whole.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}

// CreateItem creates an item in checklist in.ChecklistID, optionally
// labelled with category in.CategoryID, and links it to both.
func (s *Service) CreateItem(ctx context.Context, in ItemInput) (*model.Item, error) {
	const op = "create item"

	name, err := required(op, "name", in.Name)
	if err != nil {
		return nil, err
	}
	if in.ChecklistID == "" {
		return nil, apperr.Validation(op, "checklist_id is required")
	}
	item := &model.Item{
		Name:        name,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		Deadline:    in.Deadline.Time,
		ChecklistID: in.ChecklistID,
	}
	if item.Priority != "" && !model.ValidPriority(item.Priority) {
		return nil, apperr.Validation(op, "invalid priority %q", item.Priority)
	}
	if item.Status != "" && !model.ValidItemStatus(item.Status) {
		return nil, apperr.Validation(op, "invalid status %q", item.Status)
	}
	if in.Progress != nil {
		if !model.ValidProgress(*in.Progress) {
			return nil, apperr.Validation(op, "progress must be between 0 and 100")
		}
		item.Progress = *in.Progress
		if item.Status == "" {
			item.Status = model.StatusForProgress(item.Progress)
		}
	}
	if in.CategoryID != "" {
		item.CategoryID = &in.CategoryID
	}

	err = s.store.WithTx(ctx, func(tx store.Repo) error {
		if _, err := tx.GetChecklistByID(ctx, in.ChecklistID); err != nil {
			return err
		}
		if item.CategoryID != nil {
			if _, err := tx.GetCategoryByID(ctx, *item.CategoryID); err != nil {
				return err
			}
		}
		if err := tx.CreateItem(ctx, item); err != nil {
			return err
		}
		if err := tx.PushChecklistItem(ctx, item.ChecklistID, item.ID); err != nil {
			return err
		}
		if item.CategoryID != nil {
			return tx.PushCategoryItem(ctx, *item.CategoryID, item.ID)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return item, nil
}

// GetItem returns the first item whose name contains name, ignoring case.
func (s *Service) GetItem(ctx context.Context, name string) (*model.Item, error) {
	const op = "get item"
	if _, err := required(op, "name", name); err != nil {
		return nil, err
	}
	item, err := s.store.FindItemByName(ctx, name)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return item, nil
}

// ListItems returns items matching filter.
func (s *Service) ListItems(ctx context.Context, filter store.ItemFilter) ([]model.Item, error) {
	items, err := s.store.ListItems(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap("list items", err)
	}
	return items, nil
}

// ItemsForChecklist returns the checklist found by title with its items,
// most severe priority first and then earliest deadline, plus statistics.
func (s *Service) ItemsForChecklist(ctx context.Context, checklistTitle string) (*ChecklistItems, error) {
	const op = "list checklist items"
	if _, err := required(op, "checklist name", checklistTitle); err != nil {
		return nil, err
	}

	checklist, err := s.store.FindChecklistByTitle(ctx, checklistTitle)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	items, err := s.store.ListItems(ctx, store.ItemFilter{ChecklistID: &checklist.ID})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	sortByPriorityThenDeadline(items)

	now := s.now()
	var st ItemStats
	st.Total = len(items)
	for _, it := range items {
		switch it.Status {
		case model.ItemStatusCompleted:
			st.Completed++
		case model.ItemStatusInProgress:
			st.InProgress++
		case model.ItemStatusPending:
			st.Pending++
		}
		if it.Priority == model.PriorityHigh {
			st.HighPriority++
		}
		if it.IsOverdue(now) {
			st.Overdue++
		}
	}
	st.CompletionRate = percent(st.Completed, st.Total)

	return &ChecklistItems{Checklist: *checklist, Statistics: st, Items: items}, nil
}

// sortByPriorityThenDeadline orders items by descending severity, then by
// ascending deadline with undated items last.
func sortByPriorityThenDeadline(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := model.PriorityRank(items[i].Priority), model.PriorityRank(items[j].Priority)
		if pi != pj {
			return pi > pj
		}
		di, dj := items[i].Deadline, items[j].Deadline
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		}
		return di.Before(*dj)
	})
}

// UpdateItem applies patch to the item found by name. Changing the
// category moves the item between the categories' member lists.
func (s *Service) UpdateItem(ctx context.Context, name string, patch ItemPatch) (*model.Item, error) {
	const op = "update item"
	if _, err := required(op, "name", name); err != nil {
		return nil, err
	}

	var item *model.Item
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		var err error
		item, err = tx.FindItemByName(ctx, name)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			if item.Name, err = required(op, "name", *patch.Name); err != nil {
				return err
			}
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.Priority != nil {
			if !model.ValidPriority(*patch.Priority) {
				return apperr.Validation(op, "invalid priority %q", *patch.Priority)
			}
			item.Priority = *patch.Priority
		}
		if patch.Deadline != nil {
			item.Deadline = patch.Deadline.Time
		}
		if patch.Progress != nil {
			if !model.ValidProgress(*patch.Progress) {
				return apperr.Validation(op, "progress must be between 0 and 100")
			}
			applyProgress(item, *patch.Progress)
		}
		if patch.Status != nil {
			if !model.ValidItemStatus(*patch.Status) {
				return apperr.Validation(op, "invalid status %q", *patch.Status)
			}
			item.Status = *patch.Status
		}
		if patch.CategoryID != nil {
			if err := moveCategory(ctx, tx, item, *patch.CategoryID); err != nil {
				return err
			}
		}
		return tx.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return item, nil
}

// moveCategory relabels item with categoryID ("" for none), keeping both
// categories' member lists in step.
func moveCategory(ctx context.Context, tx store.Repo, item *model.Item, categoryID string) error {
	var current string
	if item.CategoryID != nil {
		current = *item.CategoryID
	}
	if categoryID == current {
		return nil
	}
	if categoryID != "" {
		if _, err := tx.GetCategoryByID(ctx, categoryID); err != nil {
			return err
		}
	}
	if current != "" {
		if err := tx.PullCategoryItem(ctx, current, item.ID); err != nil {
			return err
		}
	}
	if categoryID == "" {
		item.CategoryID = nil
		return nil
	}
	if err := tx.PushCategoryItem(ctx, categoryID, item.ID); err != nil {
		return err
	}
	item.CategoryID = &categoryID
	return nil
}

// SetItemProgress overrides the item's progress and derives its status
// from the new value, regardless of its steps.
func (s *Service) SetItemProgress(ctx context.Context, id string, progress int) (*model.Item, error) {
	const op = "update item progress"
	if !model.ValidProgress(progress) {
		return nil, apperr.Validation(op, "progress must be between 0 and 100")
	}

	var item *model.Item
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		var err error
		item, err = tx.GetItemByID(ctx, id)
		if err != nil {
			return err
		}
		applyProgress(item, progress)
		return tx.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return item, nil
}

// DeleteItem removes the item found by name with its steps and unlinks it
// from its checklist and category.
func (s *Service) DeleteItem(ctx context.Context, name string) error {
	const op = "delete item"
	if _, err := required(op, "name", name); err != nil {
		return err
	}

	var (
		counts cascadeCounts
		id     string
	)
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		item, err := tx.FindItemByName(ctx, name)
		if err != nil {
			return err
		}
		id = item.ID
		return deleteItemTree(ctx, tx, item, &counts)
	})
	if err != nil {
		return apperr.Wrap(op, err)
	}
	s.logger.Info("item deleted", "id", id, "steps", counts.Steps)
	return nil
}
