package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/store"
)

func TestCreateAgent_EmailUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateAgent(ctx, AgentInput{Name: "Alice", Email: "alice@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.CreateAgent(ctx, AgentInput{Name: "Imposter", Email: "ALICE@X.COM", Password: "secret2"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "agent with this email already exists", apperr.Message(err))

	for _, email := range []string{"alice@x.com", "Alice@X.com"} {
		summary, err := svc.Authenticate(ctx, email, "secret1")
		require.NoError(t, err, email)
		assert.Equal(t, "Alice", summary.Name)
	}
}

func TestCreateAgent_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		in   AgentInput
	}{
		{"missing name", AgentInput{Email: "a@b.co", Password: "secret1"}},
		{"missing email", AgentInput{Name: "A", Password: "secret1"}},
		{"malformed email", AgentInput{Name: "A", Email: "not-an-email", Password: "secret1"}},
		{"short password", AgentInput{Name: "A", Email: "a@b.co", Password: "123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAgent(ctx, tt.in)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
		})
	}
}

func TestAuthenticate_GenericFailure(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	f := buildFixture(t, svc, "alice@x.com")

	_, errWrong := svc.Authenticate(ctx, "alice@x.com", "wrong-password")
	_, errMissing := svc.Authenticate(ctx, "nobody@x.com", "secret1")
	for _, err := range []error{errWrong, errMissing} {
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		assert.Equal(t, "invalid email or password", apperr.Message(err))
	}

	summary, err := svc.Authenticate(ctx, "alice@x.com", "secret1")
	require.NoError(t, err)
	require.Len(t, summary.Spaces, 1)
	assert.Equal(t, f.space.ID, summary.Spaces[0].ID)
	require.Len(t, summary.Spaces[0].Checklists, 1)
	assert.Equal(t, f.checklist.ChecklistTitle, summary.Spaces[0].Checklists[0].ChecklistTitle)
}

func TestAuthenticate_PaddedEmailMatchesRegistration(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	agent, err := svc.CreateAgent(ctx, AgentInput{Name: "Pat", Email: " Pat@X.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "pat@x.com", agent.Email)

	for _, email := range []string{" Pat@X.com ", "pat@x.com", "\tPAT@x.com\n"} {
		summary, err := svc.Authenticate(ctx, email, "secret1")
		require.NoError(t, err, "email %q", email)
		assert.Equal(t, agent.ID, summary.ID)
	}

	_, err = svc.Authenticate(ctx, "   ", "secret1")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestGetAgent_MatchesAccentedNamesIgnoringCase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	agent, err := svc.CreateAgent(ctx, AgentInput{Name: "Émile", Email: "emile@x.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.GetAgent(ctx, "émile")
	require.NoError(t, err)
	assert.Equal(t, agent.ID, got.ID)
}

func TestUpdateAgent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	buildFixture(t, svc, "alice@x.com")
	_, err := svc.CreateAgent(ctx, AgentInput{Name: "Bob", Email: "bob@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.UpdateAgent(ctx, "bob", AgentPatch{Email: ptr("Alice@x.com")})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	// Re-saving your own email is fine.
	agent, err := svc.UpdateAgent(ctx, "bob", AgentPatch{Email: ptr("BOB@x.com"), Name: ptr("Robert")})
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", agent.Email)
	assert.Equal(t, "Robert", agent.Name)

	_, err = svc.UpdateAgent(ctx, "robert", AgentPatch{Password: ptr("123")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.UpdateAgent(ctx, "nobody", AgentPatch{Name: ptr("x")})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateSpace_RequiresAgent(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)

	_, err := svc.CreateSpace(ctx, "missing", "Work")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "agent not found", apperr.Message(err))

	spaces, err := s.ListSpaces(ctx, store.SpaceFilter{})
	require.NoError(t, err)
	assert.Empty(t, spaces)
}

func TestCreateChecklist_ExactSpaceTitle(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t)
	f := buildFixture(t, svc, "alice@x.com")

	_, err := svc.CreateChecklist(ctx, "work alice@x.com", "Backlog")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "space not found with that title", apperr.Message(err))

	cl, err := svc.CreateChecklist(ctx, f.space.SpaceTitle, "Backlog")
	require.NoError(t, err)
	assert.Equal(t, f.space.SpaceTitle, cl.SpaceTitle)

	space, err := s.GetSpaceByID(ctx, f.space.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{f.checklist.ID, cl.ID}, []string(space.Checklists))
}

func TestChildListings(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	f := buildFixture(t, svc, "alice@x.com")

	as, err := svc.SpacesForAgent(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, f.agent.Email, as.Agent.Email)
	require.Len(t, as.Spaces, 1)

	sc, err := svc.ChecklistsForSpace(ctx, "work")
	require.NoError(t, err)
	require.Len(t, sc.Checklists, 1)
	assert.Equal(t, f.checklist.ID, sc.Checklists[0].ID)

	_, err = svc.SpacesForAgent(ctx, "zed")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateSpaceAndChecklistTitles(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	buildFixture(t, svc, "alice@x.com")

	sp, err := svc.UpdateSpace(ctx, "work", SpacePatch{SpaceTitle: ptr("Office")})
	require.NoError(t, err)
	assert.Equal(t, "Office", sp.SpaceTitle)

	cl, err := svc.UpdateChecklist(ctx, "sprint1", ChecklistPatch{ChecklistTitle: ptr("Sprint 2")})
	require.NoError(t, err)
	assert.Equal(t, "Sprint 2", cl.ChecklistTitle)

	_, err = svc.UpdateChecklist(ctx, "sprint 2", ChecklistPatch{ChecklistTitle: ptr("  ")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
