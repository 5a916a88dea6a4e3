package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
	"github.com/nhle/taskspace/tests/testutil"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type seeder struct {
	t *testing.T
	s store.Store
}

func (sd seeder) agent(name, email string) *model.Agent {
	a := &model.Agent{Name: name, Email: email, Password: "secret1"}
	require.NoError(sd.t, sd.s.CreateAgent(context.Background(), a))
	return a
}

func (sd seeder) space(agentID, title string) *model.Space {
	sp := &model.Space{SpaceTitle: title, AgentID: agentID}
	require.NoError(sd.t, sd.s.CreateSpace(context.Background(), sp))
	return sp
}

func (sd seeder) checklist(sp *model.Space, title string) *model.Checklist {
	c := &model.Checklist{ChecklistTitle: title, SpaceID: sp.ID, SpaceTitle: sp.SpaceTitle}
	require.NoError(sd.t, sd.s.CreateChecklist(context.Background(), c))
	return c
}

func (sd seeder) item(checklistID, name, priority, status string, progress int, deadline *time.Time) *model.Item {
	it := &model.Item{
		Name: name, Priority: priority, Status: status, Progress: progress,
		Deadline: deadline, ChecklistID: checklistID,
	}
	require.NoError(sd.t, sd.s.CreateItem(context.Background(), it))
	return it
}

func (sd seeder) step(itemID, status string) {
	require.NoError(sd.t, sd.s.CreateStep(context.Background(), &model.Step{StepName: "s", Status: status, ItemID: itemID}))
}

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func newEngine(t *testing.T) (*Engine, seeder) {
	s := testutil.NewTestStore(t)
	return NewEngine(s, WithClock(func() time.Time { return now })), seeder{t: t, s: s}
}

func TestAgentProductivity(t *testing.T) {
	ctx := context.Background()
	e, sd := newEngine(t)

	a := sd.agent("Alice", "alice@x.com")
	work := sd.space(a.ID, "Work")
	sd.space(a.ID, "Home")
	c1 := sd.checklist(work, "Sprint")
	c2 := sd.checklist(work, "Backlog")
	sd.item(c1.ID, "a", model.PriorityLow, model.ItemStatusCompleted, 100, nil)
	sd.item(c1.ID, "b", model.PriorityLow, model.ItemStatusInProgress, 50, nil)
	sd.item(c2.ID, "c", model.PriorityLow, model.ItemStatusPending, 0, nil)

	rep, err := e.AgentProductivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", rep.AgentName)
	assert.Equal(t, ProductivityStats{
		Spaces:          2,
		Checklists:      2,
		Items:           3,
		CompletedItems:  1,
		InProgressItems: 1,
		CompletionRate:  33.33,
	}, rep.Statistics)

	_, err = e.AgentProductivity(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAgentProductivity_EmptyAgent(t *testing.T) {
	e, sd := newEngine(t)
	a := sd.agent("Loner", "loner@x.com")

	rep, err := e.AgentProductivity(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, ProductivityStats{}, rep.Statistics)
}

func TestChecklistProgress(t *testing.T) {
	ctx := context.Background()
	e, sd := newEngine(t)

	a := sd.agent("Alice", "alice@x.com")
	cl := sd.checklist(sd.space(a.ID, "Work"), "Sprint")
	first := sd.item(cl.ID, "first", model.PriorityHigh, model.ItemStatusInProgress, 67, nil)
	sd.step(first.ID, model.StepStatusCompleted)
	sd.step(first.ID, model.StepStatusCompleted)
	sd.step(first.ID, model.StepStatusPending)
	sd.item(cl.ID, "second", model.PriorityLow, model.ItemStatusCompleted, 100, nil)

	rep, err := e.ChecklistProgress(ctx, cl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sprint", rep.ChecklistTitle)
	assert.Equal(t, "Work", rep.SpaceTitle)
	assert.Equal(t, ChecklistStats{
		TotalItems:      2,
		CompletedItems:  1,
		CompletionRate:  50,
		OverallProgress: 83.5,
	}, rep.Statistics)
	require.Len(t, rep.Items, 2)
	assert.Equal(t, 66.67, rep.Items[0].StepCompletion)
	assert.Equal(t, 3, rep.Items[0].TotalSteps)
	assert.Equal(t, 0.0, rep.Items[1].StepCompletion)

	_, err = e.ChecklistProgress(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestChecklistProgress_EmptyChecklist(t *testing.T) {
	e, sd := newEngine(t)
	a := sd.agent("Alice", "alice@x.com")
	cl := sd.checklist(sd.space(a.ID, "Work"), "Empty")

	rep, err := e.ChecklistProgress(context.Background(), cl.ID)
	require.NoError(t, err)
	assert.Equal(t, ChecklistStats{}, rep.Statistics)
	assert.NotNil(t, rep.Items)
	assert.Empty(t, rep.Items)
}

func TestDeadlineAnalysis(t *testing.T) {
	ctx := context.Background()
	e, sd := newEngine(t)

	a := sd.agent("Alice", "alice@x.com")
	cl := sd.checklist(sd.space(a.ID, "Work"), "Sprint")
	sd.item(cl.ID, "late high", model.PriorityHigh, model.ItemStatusPending, 0, at(-48*time.Hour))
	sd.item(cl.ID, "late urgent", model.PriorityUrgent, model.ItemStatusInProgress, 40, at(-24*time.Hour))
	sd.item(cl.ID, "late done", model.PriorityUrgent, model.ItemStatusCompleted, 100, at(-72*time.Hour))
	sd.item(cl.ID, "tomorrow", model.PriorityLow, model.ItemStatusPending, 20, at(24*time.Hour))
	sd.item(cl.ID, "this week", model.PriorityMedium, model.ItemStatusPending, 0, at(5*24*time.Hour))
	sd.item(cl.ID, "this month", model.PriorityMedium, model.ItemStatusPending, 0, at(20*24*time.Hour))
	sd.item(cl.ID, "someday", model.PriorityLow, model.ItemStatusPending, 40, at(60*24*time.Hour))
	sd.item(cl.ID, "undated", model.PriorityUrgent, model.ItemStatusPending, 0, nil)

	rep, err := e.DeadlineAnalysis(ctx)
	require.NoError(t, err)

	st := rep.OverallStatistics
	assert.Equal(t, 7, st.TotalItemsWithDeadlines)
	assert.Equal(t, 3, st.OverdueItems)
	assert.Equal(t, 1, st.UrgentItems)
	// (-2 -1 -3 +1 +5 +20 +60) / 7
	assert.Equal(t, 11.43, st.AverageDaysUntilDeadline)
	assert.Equal(t, 28.57, st.AverageProgress)

	var buckets []string
	for _, b := range rep.DeadlineStatusBreakdown {
		buckets = append(buckets, b.DeadlineStatus)
	}
	assert.Equal(t, bucketOrder, buckets)
	overdue := rep.DeadlineStatusBreakdown[0]
	assert.Equal(t, 3, overdue.Count)
	assert.Equal(t, 42.86, overdue.Percentage)
	assert.Equal(t, 46.67, overdue.AverageProgress)

	require.Len(t, rep.PriorityBreakdown, 4)
	assert.Equal(t, model.PriorityLow, rep.PriorityBreakdown[0].Priority)
	urgent := rep.PriorityBreakdown[3]
	assert.Equal(t, PriorityBucket{Priority: model.PriorityUrgent, Count: 2, Overdue: 2, OverduePercentage: 100}, urgent)

	var critical []string
	for _, it := range rep.Alerts.CriticalOverdueItems {
		critical = append(critical, it.ItemName)
	}
	assert.Equal(t, []string{"late urgent", "late high"}, critical)
	assert.Equal(t, "Sprint", rep.Alerts.CriticalOverdueItems[0].Checklist)
	assert.Equal(t, "Work", rep.Alerts.CriticalOverdueItems[0].Space)
	assert.Equal(t, "Alice", rep.Alerts.CriticalOverdueItems[0].Agent)

	var upcoming []string
	for _, it := range rep.Alerts.UpcomingDeadlines {
		upcoming = append(upcoming, it.ItemName)
	}
	assert.Equal(t, []string{"tomorrow", "this week"}, upcoming)
}

func TestDeadlineAnalysis_AlertsCappedAtTen(t *testing.T) {
	e, sd := newEngine(t)
	a := sd.agent("Alice", "alice@x.com")
	cl := sd.checklist(sd.space(a.ID, "Work"), "Sprint")
	for i := 1; i <= 12; i++ {
		sd.item(cl.ID, "late", model.PriorityMedium, model.ItemStatusPending, 0, at(-time.Duration(i)*time.Hour))
	}

	rep, err := e.DeadlineAnalysis(context.Background())
	require.NoError(t, err)
	require.Len(t, rep.Alerts.CriticalOverdueItems, alertLimit)
	// Earliest deadline first within a priority.
	assert.True(t, rep.Alerts.CriticalOverdueItems[0].Deadline.Equal(now.Add(-12*time.Hour)))
}

func TestDeadlineAnalysis_Empty(t *testing.T) {
	e, _ := newEngine(t)

	rep, err := e.DeadlineAnalysis(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DeadlineStats{}, rep.OverallStatistics)
	assert.Empty(t, rep.PriorityBreakdown)
	assert.Empty(t, rep.DeadlineStatusBreakdown)
	assert.Empty(t, rep.Alerts.CriticalOverdueItems)
	assert.Empty(t, rep.Alerts.UpcomingDeadlines)
	assert.True(t, rep.ReportGenerated.Equal(now))
}

func TestSpaceOverview(t *testing.T) {
	e, sd := newEngine(t)

	a := sd.agent("Alice", "alice@x.com")
	b := sd.agent("Bob", "bob@x.com")
	work := sd.space(a.ID, "Work")
	sd.space(b.ID, "Garden")
	sd.checklist(work, "Sprint")
	sd.checklist(work, "Backlog")

	rows, err := e.SpaceOverview(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Garden", rows[0].SpaceTitle)
	assert.Equal(t, "Bob", rows[0].AgentName)
	assert.Equal(t, 0, rows[0].ChecklistCount)
	assert.NotNil(t, rows[0].Checklists)

	assert.Equal(t, "Work", rows[1].SpaceTitle)
	assert.Equal(t, "alice@x.com", rows[1].AgentEmail)
	assert.Equal(t, 2, rows[1].ChecklistCount)
	assert.Equal(t, "Sprint", rows[1].Checklists[0].ChecklistTitle)
	assert.Equal(t, "Backlog", rows[1].Checklists[1].ChecklistTitle)
}

func TestBucket(t *testing.T) {
	tests := []struct {
		left time.Duration
		want string
	}{
		{-time.Second, BucketOverdue},
		{0, BucketUrgent},
		{3 * day, BucketUrgent},
		{3*day + time.Second, BucketUpcoming},
		{7 * day, BucketUpcoming},
		{30 * day, BucketNearFuture},
		{31 * day, BucketFuture},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(now.Add(tt.left), now), "left %s", tt.left)
	}
}
