package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nhle/taskspace/internal/model"
)

const checklistColumns = "id, checklist_title, space_id, space_title, items, created_at, updated_at"

func selectChecklists() sq.SelectBuilder {
	return sq.Select(checklistColumns).From("checklists")
}

// CreateChecklist inserts a new checklist. Generates a UUID if ID is empty.
func (r *repo) CreateChecklist(ctx context.Context, checklist *model.Checklist) error {
	if checklist.ID == "" {
		checklist.ID = uuid.New().String()
	}
	ts := now()
	checklist.CreatedAt = ts
	checklist.UpdatedAt = ts
	if checklist.Items == nil {
		checklist.Items = model.IDList{}
	}

	return r.insert(ctx, "creating checklist", "checklist", `
		INSERT INTO checklists (
			id, checklist_title, space_id, space_title, items, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		checklist.ID, checklist.ChecklistTitle, checklist.SpaceID, checklist.SpaceTitle,
		checklist.Items, checklist.CreatedAt, checklist.UpdatedAt,
	)
}

// UpdateChecklist rewrites the title of an existing checklist.
func (r *repo) UpdateChecklist(ctx context.Context, checklist *model.Checklist) error {
	checklist.UpdatedAt = now()
	return r.execOne(ctx, "updating checklist "+checklist.ID, "checklist",
		"UPDATE checklists SET checklist_title = ?, updated_at = ? WHERE id = ?",
		checklist.ChecklistTitle, checklist.UpdatedAt, checklist.ID,
	)
}

// DeleteChecklist removes a single checklist row. It does not cascade.
func (r *repo) DeleteChecklist(ctx context.Context, id string) error {
	return r.execOne(ctx, "deleting checklist "+id, "checklist",
		"DELETE FROM checklists WHERE id = ?", id)
}

// GetChecklistByID retrieves a single checklist by ID.
func (r *repo) GetChecklistByID(ctx context.Context, id string) (*model.Checklist, error) {
	var c model.Checklist
	err := r.getOne(ctx, &c, selectChecklists().Where(sq.Eq{"id": id}),
		"getting checklist "+id, "checklist")
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindChecklistByTitle returns the earliest checklist whose title contains
// title, ignoring case.
func (r *repo) FindChecklistByTitle(ctx context.Context, title string) (*model.Checklist, error) {
	var c model.Checklist
	err := r.getOne(ctx, &c,
		selectChecklists().Where(containsFold("checklist_title", title)).OrderBy(firstMatch),
		"finding checklist by title", "checklist")
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChecklists retrieves checklists matching the filter in creation order.
func (r *repo) ListChecklists(ctx context.Context, filter ChecklistFilter) ([]model.Checklist, error) {
	b := selectChecklists().OrderBy(firstMatch)
	if filter.Title != nil && *filter.Title != "" {
		b = b.Where(containsFold("checklist_title", *filter.Title))
	}
	if filter.SpaceID != nil {
		b = b.Where(sq.Eq{"space_id": *filter.SpaceID})
	}

	checklists := []model.Checklist{}
	if err := r.selectAll(ctx, &checklists, b, "querying checklists"); err != nil {
		return nil, err
	}
	return checklists, nil
}

// PushChecklistItem appends itemID to the checklist's items list.
func (r *repo) PushChecklistItem(ctx context.Context, checklistID, itemID string) error {
	if err := r.pushMember(ctx, "checklists", "items", checklistID, itemID); err != nil {
		return fmt.Errorf("linking item %s to checklist: %w", itemID, err)
	}
	return nil
}

// PullChecklistItem removes itemID from the checklist's items list.
func (r *repo) PullChecklistItem(ctx context.Context, checklistID, itemID string) error {
	if err := r.pullMember(ctx, "checklists", "items", checklistID, itemID); err != nil {
		return fmt.Errorf("unlinking item %s from checklist: %w", itemID, err)
	}
	return nil
}
