package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nhle/taskspace/internal/model"
)

const itemColumns = "id, name, description, priority, status, progress, deadline, " +
	"checklist_id, category_id, steps, created_at, updated_at"

func selectItems() sq.SelectBuilder {
	return sq.Select(itemColumns).From("items")
}

// CreateItem inserts a new item. Generates a UUID if ID is empty and fills
// in the default priority and status.
func (r *repo) CreateItem(ctx context.Context, item *model.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	ts := now()
	item.CreatedAt = ts
	item.UpdatedAt = ts
	if item.Priority == "" {
		item.Priority = model.PriorityMedium
	}
	if item.Status == "" {
		item.Status = model.ItemStatusPending
	}
	if item.Steps == nil {
		item.Steps = model.IDList{}
	}

	return r.insert(ctx, "creating item", "item", `
		INSERT INTO items (
			id, name, description, priority, status, progress, deadline,
			checklist_id, category_id, steps, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Description, item.Priority, item.Status,
		item.Progress, utcPtr(item.Deadline),
		item.ChecklistID, item.CategoryID, item.Steps,
		item.CreatedAt, item.UpdatedAt,
	)
}

// UpdateItem rewrites the mutable fields of an existing item. The owning
// checklist and the steps list are not touched.
func (r *repo) UpdateItem(ctx context.Context, item *model.Item) error {
	item.UpdatedAt = now()
	return r.execOne(ctx, "updating item "+item.ID, "item", `
		UPDATE items SET
			name = ?, description = ?, priority = ?, status = ?,
			progress = ?, deadline = ?, category_id = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.Description, item.Priority, item.Status,
		item.Progress, utcPtr(item.Deadline), item.CategoryID, item.UpdatedAt,
		item.ID,
	)
}

// DeleteItem removes a single item row. It does not cascade.
func (r *repo) DeleteItem(ctx context.Context, id string) error {
	return r.execOne(ctx, "deleting item "+id, "item",
		"DELETE FROM items WHERE id = ?", id)
}

// GetItemByID retrieves a single item by ID.
func (r *repo) GetItemByID(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	err := r.getOne(ctx, &it, selectItems().Where(sq.Eq{"id": id}),
		"getting item "+id, "item")
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// FindItemByName returns the earliest item whose name contains name,
// ignoring case.
func (r *repo) FindItemByName(ctx context.Context, name string) (*model.Item, error) {
	var it model.Item
	err := r.getOne(ctx, &it,
		selectItems().Where(containsFold("name", name)).OrderBy(firstMatch),
		"finding item by name", "item")
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ListItems retrieves items matching the filter in creation order.
func (r *repo) ListItems(ctx context.Context, filter ItemFilter) ([]model.Item, error) {
	b := selectItems().OrderBy(firstMatch)
	if filter.Name != nil && *filter.Name != "" {
		b = b.Where(containsFold("name", *filter.Name))
	}
	if filter.Status != nil {
		b = b.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.Priority != nil {
		b = b.Where(sq.Eq{"priority": *filter.Priority})
	}
	if filter.ChecklistID != nil {
		b = b.Where(sq.Eq{"checklist_id": *filter.ChecklistID})
	}
	if filter.CategoryID != nil {
		b = b.Where(sq.Eq{"category_id": *filter.CategoryID})
	}
	if filter.HasDeadline {
		b = b.Where(sq.NotEq{"deadline": nil})
	}

	items := []model.Item{}
	if err := r.selectAll(ctx, &items, b, "querying items"); err != nil {
		return nil, err
	}
	return items, nil
}

// ClearItemCategory nulls category_id on every item that references
// categoryID and returns how many items were touched.
func (r *repo) ClearItemCategory(ctx context.Context, categoryID string) (int64, error) {
	result, err := r.q.ExecContext(ctx,
		"UPDATE items SET category_id = NULL, updated_at = ? WHERE category_id = ?",
		now(), categoryID,
	)
	if err != nil {
		return 0, fmt.Errorf("clearing category %s from items: %w", categoryID, err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}

// PushItemStep appends stepID to the item's steps list.
func (r *repo) PushItemStep(ctx context.Context, itemID, stepID string) error {
	if err := r.pushMember(ctx, "items", "steps", itemID, stepID); err != nil {
		return fmt.Errorf("linking step %s to item: %w", stepID, err)
	}
	return nil
}

// PullItemStep removes stepID from the item's steps list.
func (r *repo) PullItemStep(ctx context.Context, itemID, stepID string) error {
	if err := r.pullMember(ctx, "items", "steps", itemID, stepID); err != nil {
		return fmt.Errorf("unlinking step %s from item: %w", stepID, err)
	}
	return nil
}
