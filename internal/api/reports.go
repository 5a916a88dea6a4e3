package api

import "net/http"

func (s *Server) agentProductivity(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.AgentProductivity(r.Context(), r.PathValue("agentId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", rep)
}

func (s *Server) checklistProgress(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.ChecklistProgress(r.Context(), r.PathValue("checklistId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", rep)
}

func (s *Server) deadlineAnalysis(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.DeadlineAnalysis(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", rep)
}

func (s *Server) spaceOverview(w http.ResponseWriter, r *http.Request) {
	rows, err := s.reports.SpaceOverview(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, rows)
}
