package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/report"
	"github.com/nhle/taskspace/internal/tree"
)

// cli runs root commands against a database in a temp dir.
type cli struct {
	t   *testing.T
	dir string
}

func newCLI(t *testing.T) *cli {
	return &cli{t: t, dir: t.TempDir()}
}

func resetFlags() {
	jsonOutput = false
	agentName, agentEmail, agentPassword = "", "", ""
	spaceAgent, checklistSpace = "", ""
	itemChecklist, itemDescription, itemPriority, itemDeadline, itemCategory = "", "", "", "", ""
	stepItem, stepStatus = "", ""
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(c.dir, "config.yaml"),
		"--db", filepath.Join(c.dir, "data", "tasks.db"),
	}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) mustJSON(dest any, args ...string) {
	c.t.Helper()
	out, err := c.run(append(args, "--json")...)
	require.NoError(c.t, err)
	require.NoError(c.t, json.Unmarshal([]byte(out), dest), out)
}

func TestCommandsBuildAndReportTree(t *testing.T) {
	c := newCLI(t)

	var agent model.Agent
	c.mustJSON(&agent, "agent", "create", "--name", "Alice", "--email", "alice@example.com", "--password", "secret1")
	require.NotEmpty(t, agent.ID)

	_, err := c.run("space", "create", "Work", "--agent", "Alice")
	require.NoError(t, err)
	_, err = c.run("checklist", "create", "Sprint", "--space", "Work")
	require.NoError(t, err)
	_, err = c.run("category", "create", "Bugs")
	require.NoError(t, err)

	var item model.Item
	c.mustJSON(&item, "item", "create", "Fix login", "--checklist", "Sprint",
		"--priority", "High", "--deadline", "2030-01-02", "--category", "bugs")
	assert.Equal(t, model.PriorityHigh, item.Priority)
	require.NotNil(t, item.Deadline)
	require.NotNil(t, item.CategoryID)

	_, err = c.run("step", "create", "reproduce", "--item", "Fix login", "--status", "Completed")
	require.NoError(t, err)
	_, err = c.run("step", "create", "patch", "--item", "Fix login")
	require.NoError(t, err)

	var listed tree.ChecklistItems
	c.mustJSON(&listed, "item", "list", "--checklist", "Sprint")
	require.Len(t, listed.Items, 1)
	assert.Equal(t, 50, listed.Items[0].Progress)
	assert.Equal(t, model.ItemStatusInProgress, listed.Items[0].Status)
	assert.Equal(t, 1, listed.Statistics.InProgress)

	var steps tree.ItemSteps
	c.mustJSON(&steps, "step", "list", "--item", "Fix login")
	require.Len(t, steps.Steps, 2)
	assert.Equal(t, 50, steps.Statistics.CompletionRate)

	var updated model.Step
	c.mustJSON(&updated, "step", "status", steps.Steps[1].ID, "Completed")
	assert.Equal(t, model.StepStatusCompleted, updated.Status)

	var prod report.Productivity
	c.mustJSON(&prod, "report", "productivity", agent.ID)
	assert.Equal(t, 1, prod.Statistics.Items)
	assert.Equal(t, 1, prod.Statistics.CompletedItems)
	assert.Equal(t, 100.0, prod.Statistics.CompletionRate)

	out, err := c.run("report", "spaces")
	require.NoError(t, err)
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "Sprint")

	out, err = c.run("agent", "delete", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = c.run("report", "productivity", agent.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)

	var spaces []model.Space
	c.mustJSON(&spaces, "space", "list")
	assert.Empty(t, spaces)
}

func TestLoginCommand(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("agent", "create", "--name", "Bob", "--email", "bob@example.com", "--password", "secret1")
	require.NoError(t, err)

	var sum model.AgentSummary
	c.mustJSON(&sum, "agent", "login", "--email", "BOB@example.com", "--password", "secret1")
	assert.Equal(t, "Bob", sum.Name)

	_, err = c.run("agent", "login", "--email", "bob@example.com", "--password", "wrong!!")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized), "got %v", err)
}

func TestCategoryDeleteReportsClearedItems(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("agent", "create", "--name", "Cy", "--email", "cy@example.com", "--password", "secret1")
	require.NoError(t, err)
	_, err = c.run("space", "create", "Home", "--agent", "Cy")
	require.NoError(t, err)
	_, err = c.run("checklist", "create", "Chores", "--space", "Home")
	require.NoError(t, err)
	_, err = c.run("category", "create", "Errands")
	require.NoError(t, err)
	_, err = c.run("item", "create", "Groceries", "--checklist", "Chores", "--category", "Errands")
	require.NoError(t, err)

	var res map[string]int64
	c.mustJSON(&res, "category", "delete", "Errands")
	assert.EqualValues(t, 1, res["items_updated"])
}

func TestItemProgressRejectsNonNumber(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("item", "progress", "some-id", "half")
	assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
}

func TestParseDeadline(t *testing.T) {
	got, err := parseDeadline("")
	require.NoError(t, err)
	assert.Nil(t, got.Time)

	got, err = parseDeadline("2025-07-01T10:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, got.Time)
	assert.Equal(t, time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC), *got.Time)

	got, err = parseDeadline("2025-07-01")
	require.NoError(t, err)
	require.NotNil(t, got.Time)
	assert.Equal(t, time.UTC, got.Time.Location())

	_, err = parseDeadline("next tuesday")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	l, err := newLogger(model.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)
	l.Info("hidden")
	l.Warn("shown", "k", 1)

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "shown", m["msg"])

	l, err = newLogger(model.LogConfig{}, &buf)
	require.NoError(t, err)
	assert.True(t, l.Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, l.Enabled(t.Context(), slog.LevelDebug))

	_, err = newLogger(model.LogConfig{Level: "loud"}, &buf)
	assert.Error(t, err)
	_, err = newLogger(model.LogConfig{Format: "xml"}, &buf)
	assert.Error(t, err)
}

func TestRenderDeadlines(t *testing.T) {
	d := &report.DeadlineAnalysis{
		ReportGenerated: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		OverallStatistics: report.DeadlineStats{
			TotalItemsWithDeadlines: 2, OverdueItems: 1,
		},
		PriorityBreakdown: []report.PriorityBucket{
			{Priority: model.PriorityUrgent, Count: 2, Overdue: 1, OverduePercentage: 50},
		},
		DeadlineStatusBreakdown: []report.DeadlineBucket{
			{DeadlineStatus: report.BucketOverdue, Count: 1, Percentage: 50},
		},
		Alerts: report.DeadlineAlerts{
			CriticalOverdueItems: []report.AlertItem{{
				ItemName: "late one", Priority: model.PriorityUrgent,
				Deadline: time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC),
				Agent:    "Alice", Space: "Work", Checklist: "Sprint",
			}},
		},
	}

	out := renderDeadlines(d)
	assert.Contains(t, out, "Deadline analysis")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "late one")
	assert.Contains(t, out, "Alice / Work / Sprint")
	assert.NotContains(t, out, "Upcoming")
}
