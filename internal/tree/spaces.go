package tree

import (
	"context"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// SpacePatch holds the fields a space update may change.
type SpacePatch struct {
	SpaceTitle *string `json:"space_title"`
}

// SpaceChecklists is a space together with its checklists.
type SpaceChecklists struct {
	Space      model.Space       `json:"space"`
	Checklists []model.Checklist `json:"checklists"`
}

// CreateSpace creates a space owned by agentID and appends it to the
// agent's spaces.
func (s *Service) CreateSpace(ctx context.Context, agentID, title string) (*model.Space, error) {
	const op = "create space"

	title, err := required(op, "space_title", title)
	if err != nil {
		return nil, err
	}
	if _, err := required(op, "agent_id", agentID); err != nil {
		return nil, err
	}

	space := &model.Space{SpaceTitle: title, AgentID: agentID}
	err = s.store.WithTx(ctx, func(tx store.Repo) error {
		if _, err := tx.GetAgentByID(ctx, agentID); err != nil {
			return err
		}
		if err := tx.CreateSpace(ctx, space); err != nil {
			return err
		}
		return tx.PushAgentSpace(ctx, agentID, space.ID)
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return space, nil
}

// GetSpace returns the first space whose title contains title, ignoring case.
func (s *Service) GetSpace(ctx context.Context, title string) (*model.Space, error) {
	const op = "get space"
	if _, err := required(op, "title", title); err != nil {
		return nil, err
	}
	space, err := s.store.FindSpaceByTitle(ctx, title)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return space, nil
}

// ListSpaces returns spaces matching filter.
func (s *Service) ListSpaces(ctx context.Context, filter store.SpaceFilter) ([]model.Space, error) {
	spaces, err := s.store.ListSpaces(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap("list spaces", err)
	}
	return spaces, nil
}

// SpacesForAgent returns the agent found by name and the spaces it owns.
func (s *Service) SpacesForAgent(ctx context.Context, agentName string) (*AgentSpaces, error) {
	const op = "list agent spaces"
	if _, err := required(op, "agent name", agentName); err != nil {
		return nil, err
	}

	agent, err := s.store.FindAgentByName(ctx, agentName)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	spaces, err := s.store.ListSpaces(ctx, store.SpaceFilter{AgentID: &agent.ID})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return &AgentSpaces{
		Agent:  AgentRef{ID: agent.ID, Name: agent.Name, Email: agent.Email},
		Spaces: spaces,
	}, nil
}

// UpdateSpace applies patch to the space found by title.
func (s *Service) UpdateSpace(ctx context.Context, title string, patch SpacePatch) (*model.Space, error) {
	const op = "update space"
	if _, err := required(op, "title", title); err != nil {
		return nil, err
	}

	var space *model.Space
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		var err error
		space, err = tx.FindSpaceByTitle(ctx, title)
		if err != nil {
			return err
		}
		if patch.SpaceTitle != nil {
			if space.SpaceTitle, err = required(op, "space_title", *patch.SpaceTitle); err != nil {
				return err
			}
		}
		return tx.UpdateSpace(ctx, space)
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return space, nil
}

// DeleteSpace removes the space found by title and everything under it,
// then drops it from its agent's spaces.
func (s *Service) DeleteSpace(ctx context.Context, title string) error {
	const op = "delete space"
	if _, err := required(op, "title", title); err != nil {
		return err
	}

	var (
		counts cascadeCounts
		id     string
	)
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		space, err := tx.FindSpaceByTitle(ctx, title)
		if err != nil {
			return err
		}
		id = space.ID
		return deleteSpaceTree(ctx, tx, space, &counts)
	})
	if err != nil {
		return apperr.Wrap(op, err)
	}
	s.logger.Info("space deleted", append([]any{"id", id}, counts.attrs()...)...)
	return nil
}
