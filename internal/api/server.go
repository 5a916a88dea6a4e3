// Package api exposes the tree and report engines over HTTP. Every
// response is a JSON envelope {success, message, data?, count?}.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/report"
	"github.com/nhle/taskspace/internal/store"
	"github.com/nhle/taskspace/internal/tree"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server routes HTTP requests to the tree and report engines.
type Server struct {
	tree          *tree.Service
	reports       *report.Engine
	store         store.Store
	adminPassword string
	deadlines     DeadlineWatch
	logger        *slog.Logger
	started       time.Time
	mux           *http.ServeMux
	httpServer    *http.Server
}

// DeadlineWatch reports the most recent background deadline check, or nil
// before the first one finishes. *alerts.Watcher satisfies it.
type DeadlineWatch interface {
	Last() *report.DeadlineAnalysis
}

// ServerConfig holds the collaborators of a Server.
type ServerConfig struct {
	Tree    *tree.Service
	Reports *report.Engine
	Store   store.Store // pinged by /health

	// AdminPassword gates POST /api/admin/verify. Empty rejects every attempt.
	AdminPassword string

	// Deadlines, when set, adds the latest deadline check to /health.
	Deadlines DeadlineWatch

	Logger *slog.Logger
}

// NewServer creates a server with all routes registered.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		tree:          cfg.Tree,
		reports:       cfg.Reports,
		store:         cfg.Store,
		adminPassword: cfg.AdminPassword,
		deadlines:     cfg.Deadlines,
		logger:        logger,
		started:       time.Now(),
		mux:           http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	m := s.mux

	m.HandleFunc("GET /health", s.handleHealth)
	m.HandleFunc("POST /api/admin/verify", s.handleAdminVerify)

	m.HandleFunc("GET /api/agents", s.listAgents)
	m.HandleFunc("GET /api/agents/name/{name}", s.getAgent)
	m.HandleFunc("POST /api/agents", s.createAgent)
	m.HandleFunc("PUT /api/agents/name/{name}", s.updateAgent)
	m.HandleFunc("DELETE /api/agents/name/{name}", s.deleteAgent)
	m.HandleFunc("POST /api/agents/login", s.login)

	m.HandleFunc("GET /api/spaces", s.listSpaces)
	m.HandleFunc("GET /api/spaces/agent/name/{agentName}", s.agentSpaces)
	m.HandleFunc("GET /api/spaces/title/{title}", s.getSpace)
	m.HandleFunc("POST /api/spaces", s.createSpace)
	m.HandleFunc("PUT /api/spaces/title/{title}", s.updateSpace)
	m.HandleFunc("DELETE /api/spaces/title/{title}", s.deleteSpace)

	m.HandleFunc("GET /api/checklists", s.listChecklists)
	m.HandleFunc("GET /api/checklists/space/{spaceName}", s.spaceChecklists)
	m.HandleFunc("GET /api/checklists/title/{title}", s.getChecklist)
	m.HandleFunc("POST /api/checklists", s.createChecklist)
	m.HandleFunc("PUT /api/checklists/title/{title}", s.updateChecklist)
	m.HandleFunc("DELETE /api/checklists/title/{title}", s.deleteChecklist)

	m.HandleFunc("GET /api/items", s.listItems)
	m.HandleFunc("GET /api/items/checklist/{checklistName}", s.checklistItems)
	m.HandleFunc("GET /api/items/name/{name}", s.getItem)
	m.HandleFunc("POST /api/items", s.createItem)
	m.HandleFunc("PUT /api/items/{key}/{sub}", s.putItem)
	m.HandleFunc("PATCH /api/items/{id}/progress", s.setItemProgress)
	m.HandleFunc("DELETE /api/items/name/{name}", s.deleteItem)

	m.HandleFunc("GET /api/steps", s.listSteps)
	m.HandleFunc("GET /api/steps/item/{itemName}", s.itemSteps)
	m.HandleFunc("GET /api/steps/name/{name}", s.getStep)
	m.HandleFunc("POST /api/steps", s.createStep)
	m.HandleFunc("PUT /api/steps/{key}/{sub}", s.putStep)
	m.HandleFunc("PATCH /api/steps/{id}/status", s.setStepStatus)
	m.HandleFunc("DELETE /api/steps/name/{name}", s.deleteStep)

	m.HandleFunc("GET /api/categories", s.listCategories)
	m.HandleFunc("GET /api/categories/name/{name}", s.getCategory)
	m.HandleFunc("POST /api/categories", s.createCategory)
	m.HandleFunc("PUT /api/categories/name/{name}", s.updateCategory)
	m.HandleFunc("DELETE /api/categories/name/{name}", s.deleteCategory)

	m.HandleFunc("GET /api/aggregation/agent/{agentId}/productivity", s.agentProductivity)
	m.HandleFunc("GET /api/aggregation/checklist/{checklistId}/progress", s.checklistProgress)
	m.HandleFunc("GET /api/aggregation/deadline/analysis", s.deadlineAnalysis)
	m.HandleFunc("GET /api/aggregation/space/overview", s.spaceOverview)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.logger.Info("http server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// envelope is the shape of every response body.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func okList[T any](w http.ResponseWriter, data []T) {
	n := len(data)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &n, Data: data})
}

// statusFor maps an error's kind to an HTTP status.
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, envelope{Success: false, Message: apperr.Message(err)})
}

// decode reads a JSON body into dst.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("decode request", "invalid request body")
	}
	return nil
}

// queryPtr returns the query parameter key, or nil when absent or empty.
func queryPtr(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	}
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Error("health check failed", "error", err)
			body["status"] = "unavailable"
			writeJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Message: "database unavailable", Data: body})
			return
		}
	}
	if s.deadlines != nil {
		body["deadlines"] = deadlineHealth(s.deadlines.Last())
	}
	writeOK(w, http.StatusOK, "", body)
}

func deadlineHealth(rep *report.DeadlineAnalysis) map[string]any {
	if rep == nil {
		return map[string]any{"checked": false}
	}
	return map[string]any{
		"checked":    true,
		"checked_at": rep.ReportGenerated,
		"overdue":    rep.OverallStatistics.OverdueItems,
		"due_soon":   rep.OverallStatistics.UrgentItems,
		"alerts":     len(rep.Alerts.CriticalOverdueItems) + len(rep.Alerts.UpcomingDeadlines),
	}
}

func (s *Server) handleAdminVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if s.adminPassword == "" || req.Password != s.adminPassword {
		s.fail(w, r, apperr.Unauthorized("admin verify", "invalid admin password"))
		return
	}
	writeOK(w, http.StatusOK, "admin verified", nil)
}

func validationErr(msg string) error {
	return apperr.Validation("decode request", "%s", msg)
}
