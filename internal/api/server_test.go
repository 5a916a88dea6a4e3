package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/report"
	"github.com/nhle/taskspace/internal/store"
	"github.com/nhle/taskspace/internal/tree"
	"github.com/nhle/taskspace/tests/testutil"
)

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
}

type harness struct {
	t     *testing.T
	srv   http.Handler
	store *store.SQLiteStore
}

func newHarness(t *testing.T) harness {
	t.Helper()
	st := testutil.NewTestStore(t)
	s := NewServer(ServerConfig{
		Tree:          tree.New(st, nil),
		Reports:       report.NewEngine(st),
		Store:         st,
		AdminPassword: "letmein",
	})
	return harness{t: t, srv: s.Handler(), store: st}
}

func (h harness) do(method, path string, body any) (int, response) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.srv.ServeHTTP(rec, req)

	var resp response
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, resp
}

// id extracts data.id from a response.
func (h harness) id(resp response) string {
	h.t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(h.t, json.Unmarshal(resp.Data, &v))
	require.NotEmpty(h.t, v.ID)
	return v.ID
}

func TestAgentLifecycleOverHTTP(t *testing.T) {
	h := newHarness(t)

	code, resp := h.do("POST", "/api/agents", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	assert.True(t, resp.Success)
	assert.NotContains(t, string(resp.Data), "secret1")

	code, resp = h.do("POST", "/api/agents", map[string]string{
		"name": "Alice again", "email": "ALICE@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.Success)
	assert.Equal(t, "agent with this email already exists", resp.Message)

	code, resp = h.do("POST", "/api/agents/login", map[string]string{"email": "alice@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid email or password", resp.Message)

	code, resp = h.do("POST", "/api/agents/login", map[string]string{"email": "Alice@X.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", resp.Message)

	code, resp = h.do("GET", "/api/agents?name=ali", nil)
	assert.Equal(t, http.StatusOK, code)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 1, *resp.Count)

	code, _ = h.do("DELETE", "/api/agents/name/alice", nil)
	assert.Equal(t, http.StatusOK, code)
	code, resp = h.do("GET", "/api/agents/name/alice", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "agent not found", resp.Message)
}

func TestTreeAndReportsOverHTTP(t *testing.T) {
	h := newHarness(t)

	_, resp := h.do("POST", "/api/agents", map[string]string{"name": "Alice", "email": "alice@x.com", "password": "secret1"})
	agentID := h.id(resp)

	code, resp := h.do("POST", "/api/spaces", map[string]string{"space_title": "Work", "agent_id": agentID})
	require.Equal(t, http.StatusCreated, code, resp.Message)

	code, resp = h.do("POST", "/api/checklists", map[string]string{"checklist_title": "Sprint1", "space_title": "work"})
	assert.Equal(t, http.StatusNotFound, code)
	code, resp = h.do("POST", "/api/checklists", map[string]string{"checklist_title": "Sprint1", "space_title": "Work"})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	checklistID := h.id(resp)

	deadline := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	code, resp = h.do("POST", "/api/items", map[string]any{
		"name": "Fix bug", "checklist_id": checklistID, "priority": "High", "deadline": deadline,
	})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	itemID := h.id(resp)

	var stepIDs []string
	for _, status := range []string{"Completed", "Completed", "Pending"} {
		code, resp = h.do("POST", "/api/steps", map[string]string{"step_name": "step", "item_id": itemID, "status": status})
		require.Equal(t, http.StatusCreated, code, resp.Message)
		stepIDs = append(stepIDs, h.id(resp))
	}

	code, resp = h.do("GET", "/api/items/name/fix", nil)
	require.Equal(t, http.StatusOK, code)
	var item struct {
		Progress int    `json:"progress"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	assert.Equal(t, 67, item.Progress)
	assert.Equal(t, "In Progress", item.Status)

	code, resp = h.do("PUT", "/api/steps/"+stepIDs[2]+"/status", map[string]string{"status": "Done"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid status value", resp.Message)
	code, _ = h.do("PATCH", "/api/steps/"+stepIDs[2]+"/status", map[string]string{"status": "Completed"})
	assert.Equal(t, http.StatusOK, code)

	code, resp = h.do("GET", "/api/aggregation/checklist/"+checklistID+"/progress", nil)
	require.Equal(t, http.StatusOK, code)
	var progress report.ChecklistProgress
	require.NoError(t, json.Unmarshal(resp.Data, &progress))
	assert.Equal(t, 100.0, progress.Statistics.CompletionRate)

	code, resp = h.do("PUT", "/api/items/"+itemID+"/progress", map[string]int{"progress": 101})
	assert.Equal(t, http.StatusBadRequest, code)
	code, resp = h.do("PATCH", "/api/items/"+itemID+"/progress", map[string]int{"progress": 45})
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(resp.Data, &item))
	assert.Equal(t, "In Progress", item.Status)

	code, resp = h.do("GET", "/api/aggregation/agent/"+agentID+"/productivity", nil)
	require.Equal(t, http.StatusOK, code)
	var prod report.Productivity
	require.NoError(t, json.Unmarshal(resp.Data, &prod))
	assert.Equal(t, 1, prod.Statistics.Items)

	code, resp = h.do("GET", "/api/aggregation/deadline/analysis", nil)
	require.Equal(t, http.StatusOK, code)
	var analysis report.DeadlineAnalysis
	require.NoError(t, json.Unmarshal(resp.Data, &analysis))
	assert.Equal(t, 1, analysis.OverallStatistics.TotalItemsWithDeadlines)
	assert.Len(t, analysis.Alerts.UpcomingDeadlines, 1)

	code, resp = h.do("GET", "/api/aggregation/space/overview", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, resp.Count)
	assert.Equal(t, 1, *resp.Count)

	code, resp = h.do("GET", "/api/items/checklist/sprint", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, *resp.Count)

	code, _ = h.do("DELETE", "/api/checklists/title/sprint1", nil)
	require.Equal(t, http.StatusOK, code)
	code, resp = h.do("GET", "/api/steps", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, *resp.Count)
	code, _ = h.do("GET", "/api/aggregation/agent/missing/productivity", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCategoriesOverHTTP(t *testing.T) {
	h := newHarness(t)

	code, _ := h.do("POST", "/api/categories", map[string]string{"category_name": "Bugs"})
	require.Equal(t, http.StatusCreated, code)
	code, resp := h.do("POST", "/api/categories", map[string]string{"category_name": "bugs"})
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, resp.Success)

	code, resp = h.do("DELETE", "/api/categories/name/BUGS", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"items_updated":0}`, string(resp.Data))
}

func TestBadRequestBody(t *testing.T) {
	h := newHarness(t)

	code, resp := h.do("POST", "/api/agents", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid request body", resp.Message)

	code, resp = h.do("PATCH", "/api/items/x/progress", "{}")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "progress is required", resp.Message)
}

func TestHealthAndAdmin(t *testing.T) {
	h := newHarness(t)

	code, resp := h.do("GET", "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)

	code, _ = h.do("POST", "/api/admin/verify", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = h.do("POST", "/api/admin/verify", map[string]string{"password": "letmein"})
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminVerify_NoPasswordConfigured(t *testing.T) {
	st := testutil.NewTestStore(t)
	s := NewServer(ServerConfig{Tree: tree.New(st, nil), Reports: report.NewEngine(st), Store: st})
	h := harness{t: t, srv: s.Handler()}

	code, _ := h.do("POST", "/api/admin/verify", map[string]string{"password": ""})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestItemDeadlineFormats(t *testing.T) {
	h := newHarness(t)
	tr := testutil.SeedTree(t, h.store, "Dana", "dana@x.com")

	type itemDeadline struct {
		Deadline *time.Time `json:"deadline"`
	}
	created := func(name string, deadline any) itemDeadline {
		t.Helper()
		code, resp := h.do("POST", "/api/items", map[string]any{
			"name": name, "checklist_id": tr.Checklist.ID, "deadline": deadline,
		})
		require.Equal(t, http.StatusCreated, code, resp.Message)
		var it itemDeadline
		require.NoError(t, json.Unmarshal(resp.Data, &it))
		return it
	}

	assert.Nil(t, created("no date picked", "").Deadline)
	assert.Nil(t, created("explicit null", nil).Deadline)

	it := created("date input", "2025-03-20")
	require.NotNil(t, it.Deadline)
	assert.True(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC).Equal(*it.Deadline))

	it = created("full timestamp", "2025-03-20T09:30:00Z")
	require.NotNil(t, it.Deadline)
	assert.True(t, time.Date(2025, 3, 20, 9, 30, 0, 0, time.UTC).Equal(*it.Deadline))

	code, resp := h.do("POST", "/api/items", map[string]any{
		"name": "bad", "checklist_id": tr.Checklist.ID, "deadline": "next week",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid request body", resp.Message)

	code, resp = h.do("PUT", "/api/items/name/date%20input", map[string]any{"deadline": ""})
	require.Equal(t, http.StatusOK, code, resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, &it))
	assert.Nil(t, it.Deadline)

	code, resp = h.do("PUT", "/api/items/name/date%20input", map[string]any{"deadline": "2025-04-01"})
	require.Equal(t, http.StatusOK, code, resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, &it))
	require.NotNil(t, it.Deadline)
	assert.True(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC).Equal(*it.Deadline))
}

func TestSharedPutRoutes(t *testing.T) {
	h := newHarness(t)
	tr := testutil.SeedTree(t, h.store, "Eve", "eve@x.com")
	item := testutil.SeedItem(t, h.store, tr.Checklist, model.Item{Name: "progress"})

	code, resp := h.do("PUT", "/api/items/name/progress", map[string]string{"description": "named like the action"})
	require.Equal(t, http.StatusOK, code, resp.Message)
	assert.Contains(t, string(resp.Data), "named like the action")

	code, resp = h.do("PUT", "/api/items/"+item.ID+"/progress", map[string]int{"progress": 100})
	require.Equal(t, http.StatusOK, code, resp.Message)
	assert.Contains(t, string(resp.Data), `"status":"Completed"`)

	code, resp = h.do("PUT", "/api/items/"+item.ID+"/archive", map[string]int{})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "route not found", resp.Message)

	code, resp = h.do("POST", "/api/steps", map[string]string{"step_name": "status", "item_id": item.ID})
	require.Equal(t, http.StatusCreated, code, resp.Message)
	stepID := h.id(resp)

	code, resp = h.do("PUT", "/api/steps/name/status", map[string]string{"step_name": "renamed"})
	require.Equal(t, http.StatusOK, code, resp.Message)
	code, resp = h.do("PUT", "/api/steps/"+stepID+"/status", map[string]string{"status": "Completed"})
	require.Equal(t, http.StatusOK, code, resp.Message)
	assert.Contains(t, string(resp.Data), "renamed")

	code, resp = h.do("GET", "/api/spaces/agent/name/eve", nil)
	require.Equal(t, http.StatusOK, code, resp.Message)
	assert.Contains(t, string(resp.Data), "Eve space")
}

type fixedWatch struct{ rep *report.DeadlineAnalysis }

func (f fixedWatch) Last() *report.DeadlineAnalysis { return f.rep }

func TestHealthReportsDeadlineCheck(t *testing.T) {
	st := testutil.NewTestStore(t)
	newH := func(w DeadlineWatch) harness {
		s := NewServer(ServerConfig{Tree: tree.New(st, nil), Reports: report.NewEngine(st), Store: st, Deadlines: w})
		return harness{t: t, srv: s.Handler(), store: st}
	}

	var body struct {
		Deadlines map[string]any `json:"deadlines"`
	}

	_, resp := newH(fixedWatch{}).do("GET", "/health", nil)
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, false, body.Deadlines["checked"])

	rep := &report.DeadlineAnalysis{
		ReportGenerated:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		OverallStatistics: report.DeadlineStats{OverdueItems: 2, UrgentItems: 1},
		Alerts: report.DeadlineAlerts{
			CriticalOverdueItems: []report.AlertItem{{}, {}},
			UpcomingDeadlines:    []report.AlertItem{{}},
		},
	}
	_, resp = newH(fixedWatch{rep: rep}).do("GET", "/health", nil)
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, true, body.Deadlines["checked"])
	assert.EqualValues(t, 2, body.Deadlines["overdue"])
	assert.EqualValues(t, 1, body.Deadlines["due_soon"])
	assert.EqualValues(t, 3, body.Deadlines["alerts"])

	_, resp = newH(nil).do("GET", "/health", nil)
	body.Deadlines = nil
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Nil(t, body.Deadlines)
}
