package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/nhle/taskspace/internal/model"
)

const agentColumns = "id, name, email, password, spaces, created_at, updated_at"

func selectAgents() sq.SelectBuilder {
	return sq.Select(agentColumns).From("agents")
}

// CreateAgent inserts a new agent. Generates a UUID if ID is empty.
// The email is stored lowercase.
func (r *repo) CreateAgent(ctx context.Context, agent *model.Agent) error {
	if agent.ID == "" {
		agent.ID = uuid.New().String()
	}
	ts := now()
	agent.CreatedAt = ts
	agent.UpdatedAt = ts
	agent.Email = strings.ToLower(agent.Email)
	if agent.Spaces == nil {
		agent.Spaces = model.IDList{}
	}

	return r.insert(ctx, "creating agent", "agent with this email", `
		INSERT INTO agents (id, name, email, password, spaces, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		agent.ID, agent.Name, agent.Email, agent.Password, agent.Spaces,
		agent.CreatedAt, agent.UpdatedAt,
	)
}

// UpdateAgent rewrites name, email and password of an existing agent.
// The spaces list is maintained only through Push/PullAgentSpace.
func (r *repo) UpdateAgent(ctx context.Context, agent *model.Agent) error {
	agent.UpdatedAt = now()
	agent.Email = strings.ToLower(agent.Email)

	return r.execOne(ctx, "updating agent "+agent.ID, "agent", `
		UPDATE agents SET name = ?, email = ?, password = ?, updated_at = ?
		WHERE id = ?`,
		agent.Name, agent.Email, agent.Password, agent.UpdatedAt, agent.ID,
	)
}

// DeleteAgent removes a single agent row. It does not cascade.
func (r *repo) DeleteAgent(ctx context.Context, id string) error {
	return r.execOne(ctx, "deleting agent "+id, "agent",
		"DELETE FROM agents WHERE id = ?", id)
}

// GetAgentByID retrieves a single agent by ID.
func (r *repo) GetAgentByID(ctx context.Context, id string) (*model.Agent, error) {
	var a model.Agent
	err := r.getOne(ctx, &a, selectAgents().Where(sq.Eq{"id": id}),
		"getting agent "+id, "agent")
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAgentByEmail retrieves the agent registered with email. Emails are
// stored lowercase, so the lookup lowercases its input.
func (r *repo) GetAgentByEmail(ctx context.Context, email string) (*model.Agent, error) {
	var a model.Agent
	err := r.getOne(ctx, &a,
		selectAgents().Where(sq.Eq{"email": strings.ToLower(email)}),
		"getting agent by email", "agent")
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindAgentByName returns the earliest agent whose name contains name,
// ignoring case.
func (r *repo) FindAgentByName(ctx context.Context, name string) (*model.Agent, error) {
	var a model.Agent
	err := r.getOne(ctx, &a,
		selectAgents().Where(containsFold("name", name)).OrderBy(firstMatch),
		"finding agent by name", "agent")
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAgents retrieves agents matching the filter in creation order.
func (r *repo) ListAgents(ctx context.Context, filter AgentFilter) ([]model.Agent, error) {
	b := selectAgents().OrderBy(firstMatch)
	if filter.Name != nil && *filter.Name != "" {
		b = b.Where(containsFold("name", *filter.Name))
	}
	if filter.Email != nil && *filter.Email != "" {
		b = b.Where(containsFold("email", *filter.Email))
	}

	agents := []model.Agent{}
	if err := r.selectAll(ctx, &agents, b, "querying agents"); err != nil {
		return nil, err
	}
	return agents, nil
}

// PushAgentSpace appends spaceID to the agent's spaces list.
func (r *repo) PushAgentSpace(ctx context.Context, agentID, spaceID string) error {
	if err := r.pushMember(ctx, "agents", "spaces", agentID, spaceID); err != nil {
		return fmt.Errorf("linking space %s to agent: %w", spaceID, err)
	}
	return nil
}

// PullAgentSpace removes spaceID from the agent's spaces list.
func (r *repo) PullAgentSpace(ctx context.Context, agentID, spaceID string) error {
	if err := r.pullMember(ctx, "agents", "spaces", agentID, spaceID); err != nil {
		return fmt.Errorf("unlinking space %s from agent: %w", spaceID, err)
	}
	return nil
}
