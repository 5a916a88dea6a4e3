package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nhle/taskspace/internal/model"
)

const stepColumns = "id, step_name, status, item_id, created_at, updated_at"

func selectSteps() sq.SelectBuilder {
	return sq.Select(stepColumns).From("steps")
}

// CreateStep inserts a new step. Generates a UUID if ID is empty.
func (r *repo) CreateStep(ctx context.Context, step *model.Step) error {
	if step.ID == "" {
		step.ID = uuid.New().String()
	}
	ts := now()
	step.CreatedAt = ts
	step.UpdatedAt = ts
	if step.Status == "" {
		step.Status = model.StepStatusPending
	}

	return r.insert(ctx, "creating step", "step", `
		INSERT INTO steps (id, step_name, status, item_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		step.ID, step.StepName, step.Status, step.ItemID, step.CreatedAt, step.UpdatedAt,
	)
}

// UpdateStep rewrites the name and status of an existing step.
func (r *repo) UpdateStep(ctx context.Context, step *model.Step) error {
	step.UpdatedAt = now()
	return r.execOne(ctx, "updating step "+step.ID, "step",
		"UPDATE steps SET step_name = ?, status = ?, updated_at = ? WHERE id = ?",
		step.StepName, step.Status, step.UpdatedAt, step.ID,
	)
}

// DeleteStep removes a single step row.
func (r *repo) DeleteStep(ctx context.Context, id string) error {
	return r.execOne(ctx, "deleting step "+id, "step",
		"DELETE FROM steps WHERE id = ?", id)
}

// GetStepByID retrieves a single step by ID.
func (r *repo) GetStepByID(ctx context.Context, id string) (*model.Step, error) {
	var s model.Step
	err := r.getOne(ctx, &s, selectSteps().Where(sq.Eq{"id": id}),
		"getting step "+id, "step")
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FindStepByName returns the earliest step whose name contains name,
// ignoring case.
func (r *repo) FindStepByName(ctx context.Context, name string) (*model.Step, error) {
	var s model.Step
	err := r.getOne(ctx, &s,
		selectSteps().Where(containsFold("step_name", name)).OrderBy(firstMatch),
		"finding step by name", "step")
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSteps retrieves steps matching the filter, oldest first.
func (r *repo) ListSteps(ctx context.Context, filter StepFilter) ([]model.Step, error) {
	b := selectSteps().OrderBy(firstMatch)
	if filter.Name != nil && *filter.Name != "" {
		b = b.Where(containsFold("step_name", *filter.Name))
	}
	if filter.Status != nil {
		b = b.Where(sq.Eq{"status": *filter.Status})
	}
	if filter.ItemID != nil {
		b = b.Where(sq.Eq{"item_id": *filter.ItemID})
	}

	steps := []model.Step{}
	if err := r.selectAll(ctx, &steps, b, "querying steps"); err != nil {
		return nil, err
	}
	return steps, nil
}
