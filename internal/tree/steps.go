package tree

import (
	"context"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// StepPatch holds the fields a step update may change.
type StepPatch struct {
	StepName *string `json:"step_name"`
	Status   *string `json:"status"`
}

// StepStats summarizes the steps of one item.
type StepStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	InProgress     int `json:"in_progress"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completion_rate"`
}

// ItemSteps is an item with its steps, oldest first, and their statistics.
type ItemSteps struct {
	Item       model.Item   `json:"item"`
	Statistics StepStats    `json:"statistics"`
	Steps      []model.Step `json:"steps"`
}

// CreateStep adds a step to item itemID and recomputes the item's
// progress. An empty status means Pending.
func (s *Service) CreateStep(ctx context.Context, itemID, name, status string) (*model.Step, error) {
	const op = "create step"

	name, err := required(op, "step_name", name)
	if err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, apperr.Validation(op, "item_id is required")
	}
	if status != "" && !model.ValidStepStatus(status) {
		return nil, apperr.Validation(op, "invalid status value")
	}

	step := &model.Step{StepName: name, Status: status, ItemID: itemID}
	err = s.store.WithTx(ctx, func(tx store.Repo) error {
		if _, err := tx.GetItemByID(ctx, itemID); err != nil {
			return err
		}
		if err := tx.CreateStep(ctx, step); err != nil {
			return err
		}
		if err := tx.PushItemStep(ctx, itemID, step.ID); err != nil {
			return err
		}
		_, err := recomputeItem(ctx, tx, itemID)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return step, nil
}

// GetStep returns the first step whose name contains name, ignoring case.
func (s *Service) GetStep(ctx context.Context, name string) (*model.Step, error) {
	const op = "get step"
	if _, err := required(op, "name", name); err != nil {
		return nil, err
	}
	step, err := s.store.FindStepByName(ctx, name)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return step, nil
}

// ListSteps returns steps matching filter.
func (s *Service) ListSteps(ctx context.Context, filter store.StepFilter) ([]model.Step, error) {
	steps, err := s.store.ListSteps(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap("list steps", err)
	}
	return steps, nil
}

// StepsForItem returns the item found by name with its steps and their
// statistics.
func (s *Service) StepsForItem(ctx context.Context, itemName string) (*ItemSteps, error) {
	const op = "list item steps"
	if _, err := required(op, "item name", itemName); err != nil {
		return nil, err
	}

	item, err := s.store.FindItemByName(ctx, itemName)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	steps, err := s.store.ListSteps(ctx, store.StepFilter{ItemID: &item.ID})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	st := StepStats{Total: len(steps)}
	for _, step := range steps {
		switch step.Status {
		case model.StepStatusCompleted:
			st.Completed++
		case model.StepStatusInProgress:
			st.InProgress++
		case model.StepStatusPending:
			st.Pending++
		}
	}
	st.CompletionRate = percent(st.Completed, st.Total)

	return &ItemSteps{Item: *item, Statistics: st, Steps: steps}, nil
}

// UpdateStep applies patch to the step found by name. A status change
// recomputes the owning item.
func (s *Service) UpdateStep(ctx context.Context, name string, patch StepPatch) (*model.Step, error) {
	const op = "update step"
	if _, err := required(op, "name", name); err != nil {
		return nil, err
	}
	if patch.Status != nil && !model.ValidStepStatus(*patch.Status) {
		return nil, apperr.Validation(op, "invalid status value")
	}

	var step *model.Step
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		var err error
		step, err = tx.FindStepByName(ctx, name)
		if err != nil {
			return err
		}
		if patch.StepName != nil {
			if step.StepName, err = required(op, "step_name", *patch.StepName); err != nil {
				return err
			}
		}
		if patch.Status != nil {
			step.Status = *patch.Status
		}
		if err := tx.UpdateStep(ctx, step); err != nil {
			return err
		}
		if patch.Status == nil {
			return nil
		}
		_, err = recomputeItem(ctx, tx, step.ItemID)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return step, nil
}

// UpdateStepStatus sets the status of step id and recomputes its item.
func (s *Service) UpdateStepStatus(ctx context.Context, id, status string) (*model.Step, error) {
	const op = "update step status"
	if !model.ValidStepStatus(status) {
		return nil, apperr.Validation(op, "invalid status value")
	}

	var step *model.Step
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		var err error
		step, err = tx.GetStepByID(ctx, id)
		if err != nil {
			return err
		}
		step.Status = status
		if err := tx.UpdateStep(ctx, step); err != nil {
			return err
		}
		_, err = recomputeItem(ctx, tx, step.ItemID)
		return err
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return step, nil
}

// DeleteStep removes the step found by name and unlinks it from its item.
// The item's progress is left as it was.
func (s *Service) DeleteStep(ctx context.Context, name string) error {
	const op = "delete step"
	if _, err := required(op, "name", name); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		step, err := tx.FindStepByName(ctx, name)
		if err != nil {
			return err
		}
		if err := tx.PullItemStep(ctx, step.ItemID, step.ID); err != nil {
			return err
		}
		return tx.DeleteStep(ctx, step.ID)
	})
	if err != nil {
		return apperr.Wrap(op, err)
	}
	return nil
}
