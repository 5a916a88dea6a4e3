package tree

import (
	"context"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// ChecklistPatch holds the fields a checklist update may change.
type ChecklistPatch struct {
	ChecklistTitle *string `json:"checklist_title"`
}

// CreateChecklist creates a checklist in the space whose title is exactly
// spaceTitle and appends it to that space's checklists.
func (s *Service) CreateChecklist(ctx context.Context, spaceTitle, title string) (*model.Checklist, error) {
	const op = "create checklist"

	title, err := required(op, "checklist_title", title)
	if err != nil {
		return nil, err
	}
	if spaceTitle == "" {
		return nil, apperr.Validation(op, "space_title is required")
	}

	var checklist *model.Checklist
	err = s.store.WithTx(ctx, func(tx store.Repo) error {
		space, err := tx.GetSpaceByExactTitle(ctx, spaceTitle)
		if err != nil {
			if apperr.Is(err, apperr.KindNotFound) {
				return apperr.NotFound(op, "space not found with that title")
			}
			return err
		}
		checklist = &model.Checklist{
			ChecklistTitle: title,
			SpaceID:        space.ID,
			SpaceTitle:     space.SpaceTitle,
		}
		if err := tx.CreateChecklist(ctx, checklist); err != nil {
			return err
		}
		return tx.PushSpaceChecklist(ctx, space.ID, checklist.ID)
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return checklist, nil
}

// GetChecklist returns the first checklist whose title contains title,
// ignoring case.
func (s *Service) GetChecklist(ctx context.Context, title string) (*model.Checklist, error) {
	const op = "get checklist"
	if _, err := required(op, "title", title); err != nil {
		return nil, err
	}
	checklist, err := s.store.FindChecklistByTitle(ctx, title)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return checklist, nil
}

// ListChecklists returns checklists matching filter.
func (s *Service) ListChecklists(ctx context.Context, filter store.ChecklistFilter) ([]model.Checklist, error) {
	checklists, err := s.store.ListChecklists(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap("list checklists", err)
	}
	return checklists, nil
}

// ChecklistsForSpace returns the space found by title and its checklists.
func (s *Service) ChecklistsForSpace(ctx context.Context, spaceTitle string) (*SpaceChecklists, error) {
	const op = "list space checklists"
	if _, err := required(op, "space name", spaceTitle); err != nil {
		return nil, err
	}

	space, err := s.store.FindSpaceByTitle(ctx, spaceTitle)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	checklists, err := s.store.ListChecklists(ctx, store.ChecklistFilter{SpaceID: &space.ID})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return &SpaceChecklists{Space: *space, Checklists: checklists}, nil
}

// UpdateChecklist applies patch to the checklist found by title.
func (s *Service) UpdateChecklist(ctx context.Context, title string, patch ChecklistPatch) (*model.Checklist, error) {
	const op = "update checklist"
	if _, err := required(op, "title", title); err != nil {
		return nil, err
	}

	var checklist *model.Checklist
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		var err error
		checklist, err = tx.FindChecklistByTitle(ctx, title)
		if err != nil {
			return err
		}
		if patch.ChecklistTitle != nil {
			if checklist.ChecklistTitle, err = required(op, "checklist_title", *patch.ChecklistTitle); err != nil {
				return err
			}
		}
		return tx.UpdateChecklist(ctx, checklist)
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return checklist, nil
}

// DeleteChecklist removes the checklist found by title with all its items
// and their steps, then drops it from its space's checklists.
func (s *Service) DeleteChecklist(ctx context.Context, title string) error {
	const op = "delete checklist"
	if _, err := required(op, "title", title); err != nil {
		return err
	}

	var (
		counts cascadeCounts
		id     string
	)
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		checklist, err := tx.FindChecklistByTitle(ctx, title)
		if err != nil {
			return err
		}
		id = checklist.ID
		return deleteChecklistTree(ctx, tx, checklist, &counts)
	})
	if err != nil {
		return apperr.Wrap(op, err)
	}
	s.logger.Info("checklist deleted", append([]any{"id", id}, counts.attrs()...)...)
	return nil
}
