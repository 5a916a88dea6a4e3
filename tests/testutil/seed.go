package testutil

import (
	"context"
	"testing"

	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// Tree is an agent with one space holding one empty checklist.
type Tree struct {
	Agent     *model.Agent
	Space     *model.Space
	Checklist *model.Checklist
}

// SeedTree creates agent name <email> owning space "<name> space", which
// holds checklist "<name> list". Membership lists are linked the way the
// tree engine links them.
func SeedTree(t *testing.T, s store.Store, name, email string) Tree {
	t.Helper()
	ctx := context.Background()

	agent := &model.Agent{Name: name, Email: email, Password: "secret1"}
	if err := s.CreateAgent(ctx, agent); err != nil {
		t.Fatalf("seeding agent: %v", err)
	}

	space := &model.Space{SpaceTitle: name + " space", AgentID: agent.ID}
	if err := s.CreateSpace(ctx, space); err != nil {
		t.Fatalf("seeding space: %v", err)
	}
	if err := s.PushAgentSpace(ctx, agent.ID, space.ID); err != nil {
		t.Fatalf("linking space: %v", err)
	}

	checklist := &model.Checklist{ChecklistTitle: name + " list", SpaceID: space.ID, SpaceTitle: space.SpaceTitle}
	if err := s.CreateChecklist(ctx, checklist); err != nil {
		t.Fatalf("seeding checklist: %v", err)
	}
	if err := s.PushSpaceChecklist(ctx, space.ID, checklist.ID); err != nil {
		t.Fatalf("linking checklist: %v", err)
	}

	return Tree{Agent: agent, Space: space, Checklist: checklist}
}

// SeedItem adds an item to checklist c and links it.
func SeedItem(t *testing.T, s store.Store, c *model.Checklist, item model.Item) *model.Item {
	t.Helper()
	ctx := context.Background()

	item.ChecklistID = c.ID
	if err := s.CreateItem(ctx, &item); err != nil {
		t.Fatalf("seeding item %q: %v", item.Name, err)
	}
	if err := s.PushChecklistItem(ctx, c.ID, item.ID); err != nil {
		t.Fatalf("linking item %q: %v", item.Name, err)
	}
	return &item
}
