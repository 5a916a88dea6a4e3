package tree

import (
	"context"
	"regexp"
	"strings"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// MinPasswordLength is the shortest password an agent may register with.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// AgentInput carries the fields of a new agent.
type AgentInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AgentPatch holds the fields an agent update may change. Nil fields are
// left alone.
type AgentPatch struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// AgentRef is an agent without its password or membership list.
type AgentRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AgentSpaces is an agent together with the spaces it owns.
type AgentSpaces struct {
	Agent  AgentRef      `json:"agent"`
	Spaces []model.Space `json:"spaces"`
}

func validEmail(op, email string) (string, error) {
	email, err := required(op, "email", email)
	if err != nil {
		return "", err
	}
	if !emailPattern.MatchString(email) {
		return "", apperr.Validation(op, "please enter a valid email")
	}
	return email, nil
}

func validPassword(op, password string) error {
	if password == "" {
		return apperr.Validation(op, "password is required")
	}
	if len(password) < MinPasswordLength {
		return apperr.Validation(op, "password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// CreateAgent registers a new agent. Emails are unique ignoring case.
// The password is stored as given.
func (s *Service) CreateAgent(ctx context.Context, in AgentInput) (*model.Agent, error) {
	const op = "create agent"

	name, err := required(op, "name", in.Name)
	if err != nil {
		return nil, err
	}
	email, err := validEmail(op, in.Email)
	if err != nil {
		return nil, err
	}
	if err := validPassword(op, in.Password); err != nil {
		return nil, err
	}

	if _, err := s.store.GetAgentByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict(op, "agent with this email already exists")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Wrap(op, err)
	}

	agent := &model.Agent{Name: name, Email: email, Password: in.Password}
	if err := s.store.CreateAgent(ctx, agent); err != nil {
		return nil, apperr.Wrap(op, err)
	}
	s.logger.Info("agent created", "id", agent.ID, "email", agent.Email)
	return agent, nil
}

// Authenticate checks email and password and returns the agent's summary.
// A missing agent and a wrong password fail identically.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*model.AgentSummary, error) {
	const op = "login"

	// Registration stores the trimmed address.
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperr.Validation(op, "email and password are required")
	}

	agent, err := s.store.GetAgentByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized(op, "invalid email or password")
		}
		return nil, apperr.Wrap(op, err)
	}
	if agent.Password != password {
		return nil, apperr.Unauthorized(op, "invalid email or password")
	}

	summary, err := agentSummary(ctx, s.store, agent)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return summary, nil
}

// agentSummary gathers the agent's spaces with their checklist refs.
func agentSummary(ctx context.Context, r store.Repo, agent *model.Agent) (*model.AgentSummary, error) {
	spaces, err := r.ListSpaces(ctx, store.SpaceFilter{AgentID: &agent.ID})
	if err != nil {
		return nil, err
	}

	summary := &model.AgentSummary{
		ID:     agent.ID,
		Name:   agent.Name,
		Email:  agent.Email,
		Spaces: make([]model.SpaceSummary, 0, len(spaces)),
	}
	for _, sp := range spaces {
		checklists, err := r.ListChecklists(ctx, store.ChecklistFilter{SpaceID: &sp.ID})
		if err != nil {
			return nil, err
		}
		refs := make([]model.ChecklistRef, 0, len(checklists))
		for _, c := range checklists {
			refs = append(refs, model.ChecklistRef{ID: c.ID, ChecklistTitle: c.ChecklistTitle})
		}
		summary.Spaces = append(summary.Spaces, model.SpaceSummary{
			ID:         sp.ID,
			SpaceTitle: sp.SpaceTitle,
			Checklists: refs,
			CreatedAt:  sp.CreatedAt,
		})
	}
	return summary, nil
}

// GetAgent returns the first agent whose name contains name, ignoring case.
func (s *Service) GetAgent(ctx context.Context, name string) (*model.Agent, error) {
	const op = "get agent"
	if _, err := required(op, "name", name); err != nil {
		return nil, err
	}
	agent, err := s.store.FindAgentByName(ctx, name)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return agent, nil
}

// ListAgents returns agents matching filter.
func (s *Service) ListAgents(ctx context.Context, filter store.AgentFilter) ([]model.Agent, error) {
	agents, err := s.store.ListAgents(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap("list agents", err)
	}
	return agents, nil
}

// UpdateAgent applies patch to the agent found by name. A new email must
// not belong to another agent.
func (s *Service) UpdateAgent(ctx context.Context, name string, patch AgentPatch) (*model.Agent, error) {
	const op = "update agent"
	if _, err := required(op, "name", name); err != nil {
		return nil, err
	}

	var agent *model.Agent
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		var err error
		agent, err = tx.FindAgentByName(ctx, name)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			if agent.Name, err = required(op, "name", *patch.Name); err != nil {
				return err
			}
		}
		if patch.Email != nil {
			email, err := validEmail(op, *patch.Email)
			if err != nil {
				return err
			}
			other, err := tx.GetAgentByEmail(ctx, email)
			switch {
			case err == nil && other.ID != agent.ID:
				return apperr.Conflict(op, "email already in use by another agent")
			case err != nil && !apperr.Is(err, apperr.KindNotFound):
				return err
			}
			agent.Email = email
		}
		if patch.Password != nil {
			if err := validPassword(op, *patch.Password); err != nil {
				return err
			}
			agent.Password = *patch.Password
		}
		return tx.UpdateAgent(ctx, agent)
	})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	return agent, nil
}

// DeleteAgent removes the agent found by name together with every space,
// checklist, item and step it owns. Either all of it goes or none does.
func (s *Service) DeleteAgent(ctx context.Context, name string) error {
	const op = "delete agent"
	if _, err := required(op, "name", name); err != nil {
		return err
	}

	var (
		counts cascadeCounts
		id     string
	)
	err := s.store.WithTx(ctx, func(tx store.Repo) error {
		agent, err := tx.FindAgentByName(ctx, name)
		if err != nil {
			return err
		}
		id = agent.ID
		return deleteAgentTree(ctx, tx, agent, &counts)
	})
	if err != nil {
		return apperr.Wrap(op, err)
	}
	s.logger.Info("agent deleted", append([]any{"id", id}, counts.attrs()...)...)
	return nil
}
