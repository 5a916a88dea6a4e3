package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nhle/taskspace/internal/model"
)

const spaceColumns = "id, space_title, agent_id, checklists, created_at, updated_at"

func selectSpaces() sq.SelectBuilder {
	return sq.Select(spaceColumns).From("spaces")
}

// CreateSpace inserts a new space. Generates a UUID if ID is empty.
func (r *repo) CreateSpace(ctx context.Context, space *model.Space) error {
	if space.ID == "" {
		space.ID = uuid.New().String()
	}
	ts := now()
	space.CreatedAt = ts
	space.UpdatedAt = ts
	if space.Checklists == nil {
		space.Checklists = model.IDList{}
	}

	return r.insert(ctx, "creating space", "space", `
		INSERT INTO spaces (id, space_title, agent_id, checklists, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		space.ID, space.SpaceTitle, space.AgentID, space.Checklists,
		space.CreatedAt, space.UpdatedAt,
	)
}

// UpdateSpace rewrites the title of an existing space. The owning agent is
// immutable.
func (r *repo) UpdateSpace(ctx context.Context, space *model.Space) error {
	space.UpdatedAt = now()
	return r.execOne(ctx, "updating space "+space.ID, "space",
		"UPDATE spaces SET space_title = ?, updated_at = ? WHERE id = ?",
		space.SpaceTitle, space.UpdatedAt, space.ID,
	)
}

// DeleteSpace removes a single space row. It does not cascade.
func (r *repo) DeleteSpace(ctx context.Context, id string) error {
	return r.execOne(ctx, "deleting space "+id, "space",
		"DELETE FROM spaces WHERE id = ?", id)
}

// GetSpaceByID retrieves a single space by ID.
func (r *repo) GetSpaceByID(ctx context.Context, id string) (*model.Space, error) {
	var s model.Space
	err := r.getOne(ctx, &s, selectSpaces().Where(sq.Eq{"id": id}),
		"getting space "+id, "space")
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSpaceByExactTitle returns the earliest space whose title equals title
// exactly (case-sensitive).
func (r *repo) GetSpaceByExactTitle(ctx context.Context, title string) (*model.Space, error) {
	var s model.Space
	err := r.getOne(ctx, &s,
		selectSpaces().Where(sq.Eq{"space_title": title}).OrderBy(firstMatch),
		"getting space by title", "space")
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindSpaceByTitle returns the earliest space whose title contains title,
// ignoring case.
func (r *repo) FindSpaceByTitle(ctx context.Context, title string) (*model.Space, error) {
	var s model.Space
	err := r.getOne(ctx, &s,
		selectSpaces().Where(containsFold("space_title", title)).OrderBy(firstMatch),
		"finding space by title", "space")
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSpaces retrieves spaces matching the filter in creation order.
func (r *repo) ListSpaces(ctx context.Context, filter SpaceFilter) ([]model.Space, error) {
	b := selectSpaces().OrderBy(firstMatch)
	if filter.Title != nil && *filter.Title != "" {
		b = b.Where(containsFold("space_title", *filter.Title))
	}
	if filter.AgentID != nil {
		b = b.Where(sq.Eq{"agent_id": *filter.AgentID})
	}

	spaces := []model.Space{}
	if err := r.selectAll(ctx, &spaces, b, "querying spaces"); err != nil {
		return nil, err
	}
	return spaces, nil
}

// PushSpaceChecklist appends checklistID to the space's checklists list.
func (r *repo) PushSpaceChecklist(ctx context.Context, spaceID, checklistID string) error {
	if err := r.pushMember(ctx, "spaces", "checklists", spaceID, checklistID); err != nil {
		return fmt.Errorf("linking checklist %s to space: %w", checklistID, err)
	}
	return nil
}

// PullSpaceChecklist removes checklistID from the space's checklists list.
func (r *repo) PullSpaceChecklist(ctx context.Context, spaceID, checklistID string) error {
	if err := r.pullMember(ctx, "spaces", "checklists", spaceID, checklistID); err != nil {
		return fmt.Errorf("unlinking checklist %s from space: %w", checklistID, err)
	}
	return nil
}
