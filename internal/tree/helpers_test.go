package tree

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
	"github.com/nhle/taskspace/tests/testutil"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	s := testutil.NewTestStore(t)
	svc := New(s, nil)
	svc.now = func() time.Time { return testNow }
	return svc, s
}

func ptr[T any](v T) *T { return &v }

// fixture is a small tree: one agent, one space, one checklist, one item.
type fixture struct {
	agent     *model.Agent
	space     *model.Space
	checklist *model.Checklist
	item      *model.Item
}

func buildFixture(t *testing.T, svc *Service, email string) fixture {
	t.Helper()
	ctx := context.Background()

	agent, err := svc.CreateAgent(ctx, AgentInput{Name: "Alice", Email: email, Password: "secret1"})
	require.NoError(t, err)
	space, err := svc.CreateSpace(ctx, agent.ID, "Work "+email)
	require.NoError(t, err)
	checklist, err := svc.CreateChecklist(ctx, space.SpaceTitle, "Sprint1 "+email)
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, ItemInput{Name: "Fix bug " + email, ChecklistID: checklist.ID})
	require.NoError(t, err)
	return fixture{agent: agent, space: space, checklist: checklist, item: item}
}

// snapshot captures every row of every collection.
type snapshot struct {
	Agents     []model.Agent
	Spaces     []model.Space
	Checklists []model.Checklist
	Items      []model.Item
	Steps      []model.Step
	Categories []model.Category
}

func takeSnapshot(t *testing.T, s store.Repo) snapshot {
	t.Helper()
	ctx := context.Background()
	var snap snapshot
	var err error
	snap.Agents, err = s.ListAgents(ctx, store.AgentFilter{})
	require.NoError(t, err)
	snap.Spaces, err = s.ListSpaces(ctx, store.SpaceFilter{})
	require.NoError(t, err)
	snap.Checklists, err = s.ListChecklists(ctx, store.ChecklistFilter{})
	require.NoError(t, err)
	snap.Items, err = s.ListItems(ctx, store.ItemFilter{})
	require.NoError(t, err)
	snap.Steps, err = s.ListSteps(ctx, store.StepFilter{})
	require.NoError(t, err)
	snap.Categories, err = s.ListCategories(ctx, store.CategoryFilter{})
	require.NoError(t, err)
	return snap
}

var errInjected = errors.New("injected fault")

// faultStore hands out transactional repos that fail the failAt-th
// destructive call (deletes and membership pulls).
type faultStore struct {
	store.Store
	failAt int
}

func (f *faultStore) WithTx(ctx context.Context, fn func(tx store.Repo) error) error {
	return f.Store.WithTx(ctx, func(tx store.Repo) error {
		return fn(&faultRepo{Repo: tx, failAt: f.failAt})
	})
}

type faultRepo struct {
	store.Repo
	calls  int
	failAt int
}

func (r *faultRepo) hit() error {
	r.calls++
	if r.calls == r.failAt {
		return errInjected
	}
	return nil
}

func (r *faultRepo) DeleteAgent(ctx context.Context, id string) error {
	if err := r.hit(); err != nil {
		return err
	}
	return r.Repo.DeleteAgent(ctx, id)
}

func (r *faultRepo) DeleteSpace(ctx context.Context, id string) error {
	if err := r.hit(); err != nil {
		return err
	}
	return r.Repo.DeleteSpace(ctx, id)
}

func (r *faultRepo) DeleteChecklist(ctx context.Context, id string) error {
	if err := r.hit(); err != nil {
		return err
	}
	return r.Repo.DeleteChecklist(ctx, id)
}

func (r *faultRepo) DeleteItem(ctx context.Context, id string) error {
	if err := r.hit(); err != nil {
		return err
	}
	return r.Repo.DeleteItem(ctx, id)
}

func (r *faultRepo) DeleteStep(ctx context.Context, id string) error {
	if err := r.hit(); err != nil {
		return err
	}
	return r.Repo.DeleteStep(ctx, id)
}

func (r *faultRepo) PullAgentSpace(ctx context.Context, agentID, spaceID string) error {
	if err := r.hit(); err != nil {
		return err
	}
	return r.Repo.PullAgentSpace(ctx, agentID, spaceID)
}

func (r *faultRepo) PullSpaceChecklist(ctx context.Context, spaceID, checklistID string) error {
	if err := r.hit(); err != nil {
		return err
	}
	return r.Repo.PullSpaceChecklist(ctx, spaceID, checklistID)
}

func (r *faultRepo) PullChecklistItem(ctx context.Context, checklistID, itemID string) error {
	if err := r.hit(); err != nil {
		return err
	}
	return r.Repo.PullChecklistItem(ctx, checklistID, itemID)
}

func (r *faultRepo) PullCategoryItem(ctx context.Context, categoryID, itemID string) error {
	if err := r.hit(); err != nil {
		return err
	}
	return r.Repo.PullCategoryItem(ctx, categoryID, itemID)
}
