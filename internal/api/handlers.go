package api

import (
	"net/http"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/store"
	"github.com/nhle/taskspace/internal/tree"
)

// === Agents ===

func (s *Server) listAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.tree.ListAgents(r.Context(), store.AgentFilter{
		Name:  queryPtr(r, "name"),
		Email: queryPtr(r, "email"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, agents)
}

func (s *Server) getAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := s.tree.GetAgent(r.Context(), r.PathValue("name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", agent)
}

func (s *Server) createAgent(w http.ResponseWriter, r *http.Request) {
	var in tree.AgentInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	agent, err := s.tree.CreateAgent(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Agent created successfully", agent)
}

func (s *Server) updateAgent(w http.ResponseWriter, r *http.Request) {
	var patch tree.AgentPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	agent, err := s.tree.UpdateAgent(r.Context(), r.PathValue("name"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Agent updated successfully", agent)
}

func (s *Server) deleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := s.tree.DeleteAgent(r.Context(), r.PathValue("name")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Agent and all associated data deleted successfully", nil)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	summary, err := s.tree.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Login successful", summary)
}

// === Spaces ===

func (s *Server) listSpaces(w http.ResponseWriter, r *http.Request) {
	spaces, err := s.tree.ListSpaces(r.Context(), store.SpaceFilter{
		Title:   queryPtr(r, "space_title"),
		AgentID: queryPtr(r, "agent_id"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, spaces)
}

func (s *Server) agentSpaces(w http.ResponseWriter, r *http.Request) {
	res, err := s.tree.SpacesForAgent(r.Context(), r.PathValue("agentName"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n := len(res.Spaces)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &n, Data: res})
}

func (s *Server) getSpace(w http.ResponseWriter, r *http.Request) {
	space, err := s.tree.GetSpace(r.Context(), r.PathValue("title"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", space)
}

func (s *Server) createSpace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpaceTitle string `json:"space_title"`
		AgentID    string `json:"agent_id"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	space, err := s.tree.CreateSpace(r.Context(), req.AgentID, req.SpaceTitle)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Space created successfully", space)
}

func (s *Server) updateSpace(w http.ResponseWriter, r *http.Request) {
	var patch tree.SpacePatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	space, err := s.tree.UpdateSpace(r.Context(), r.PathValue("title"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Space updated successfully", space)
}

func (s *Server) deleteSpace(w http.ResponseWriter, r *http.Request) {
	if err := s.tree.DeleteSpace(r.Context(), r.PathValue("title")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Space and all associated checklists deleted successfully", nil)
}

// === Checklists ===

func (s *Server) listChecklists(w http.ResponseWriter, r *http.Request) {
	checklists, err := s.tree.ListChecklists(r.Context(), store.ChecklistFilter{
		Title:   queryPtr(r, "checklist_title"),
		SpaceID: queryPtr(r, "space_id"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, checklists)
}

func (s *Server) spaceChecklists(w http.ResponseWriter, r *http.Request) {
	res, err := s.tree.ChecklistsForSpace(r.Context(), r.PathValue("spaceName"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n := len(res.Checklists)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &n, Data: res})
}

func (s *Server) getChecklist(w http.ResponseWriter, r *http.Request) {
	checklist, err := s.tree.GetChecklist(r.Context(), r.PathValue("title"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", checklist)
}

func (s *Server) createChecklist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChecklistTitle string `json:"checklist_title"`
		SpaceTitle     string `json:"space_title"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	checklist, err := s.tree.CreateChecklist(r.Context(), req.SpaceTitle, req.ChecklistTitle)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Checklist created successfully", checklist)
}

func (s *Server) updateChecklist(w http.ResponseWriter, r *http.Request) {
	var patch tree.ChecklistPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	checklist, err := s.tree.UpdateChecklist(r.Context(), r.PathValue("title"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Checklist updated successfully", checklist)
}

func (s *Server) deleteChecklist(w http.ResponseWriter, r *http.Request) {
	if err := s.tree.DeleteChecklist(r.Context(), r.PathValue("title")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Checklist and all items deleted successfully", nil)
}

// === Items ===

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.tree.ListItems(r.Context(), store.ItemFilter{
		Name:        queryPtr(r, "name"),
		Status:      queryPtr(r, "status"),
		Priority:    queryPtr(r, "priority"),
		ChecklistID: queryPtr(r, "checklist_id"),
		CategoryID:  queryPtr(r, "category_id"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, items)
}

func (s *Server) checklistItems(w http.ResponseWriter, r *http.Request) {
	res, err := s.tree.ItemsForChecklist(r.Context(), r.PathValue("checklistName"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n := len(res.Items)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &n, Data: res})
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.tree.GetItem(r.Context(), r.PathValue("name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", item)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var in tree.ItemInput
	if err := decode(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.tree.CreateItem(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Item created successfully", item)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var patch tree.ItemPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	item, err := s.tree.UpdateItem(r.Context(), r.PathValue("name"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Item updated successfully", item)
}

func (s *Server) setItemProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Progress *int `json:"progress"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Progress == nil {
		s.fail(w, r, validationErr("progress is required"))
		return
	}
	item, err := s.tree.SetItemProgress(r.Context(), r.PathValue("id"), *req.Progress)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Item progress updated successfully", item)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.tree.DeleteItem(r.Context(), r.PathValue("name")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Item and all associated steps deleted successfully", nil)
}

// === Steps ===

func (s *Server) listSteps(w http.ResponseWriter, r *http.Request) {
	steps, err := s.tree.ListSteps(r.Context(), store.StepFilter{
		Name:   queryPtr(r, "step_name"),
		Status: queryPtr(r, "status"),
		ItemID: queryPtr(r, "item_id"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, steps)
}

func (s *Server) itemSteps(w http.ResponseWriter, r *http.Request) {
	res, err := s.tree.StepsForItem(r.Context(), r.PathValue("itemName"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	n := len(res.Steps)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &n, Data: res})
}

func (s *Server) getStep(w http.ResponseWriter, r *http.Request) {
	step, err := s.tree.GetStep(r.Context(), r.PathValue("name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", step)
}

func (s *Server) createStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StepName string `json:"step_name"`
		ItemID   string `json:"item_id"`
		Status   string `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	step, err := s.tree.CreateStep(r.Context(), req.ItemID, req.StepName, req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Step created successfully", step)
}

func (s *Server) updateStep(w http.ResponseWriter, r *http.Request) {
	var patch tree.StepPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	step, err := s.tree.UpdateStep(r.Context(), r.PathValue("name"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Step updated successfully", step)
}

func (s *Server) setStepStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	step, err := s.tree.UpdateStepStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Step status updated successfully", step)
}

func (s *Server) deleteStep(w http.ResponseWriter, r *http.Request) {
	if err := s.tree.DeleteStep(r.Context(), r.PathValue("name")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Step deleted successfully", nil)
}

// === Categories ===

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.tree.ListCategories(r.Context(), store.CategoryFilter{
		Name: queryPtr(r, "category_name"),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	okList(w, categories)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.tree.GetCategory(r.Context(), r.PathValue("name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "", category)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CategoryName string `json:"category_name"`
	}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	category, err := s.tree.CreateCategory(r.Context(), req.CategoryName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, "Category created successfully", category)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	var patch tree.CategoryPatch
	if err := decode(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	category, err := s.tree.UpdateCategory(r.Context(), r.PathValue("name"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Category updated successfully", category)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	cleared, err := s.tree.DeleteCategory(r.Context(), r.PathValue("name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Category deleted successfully", map[string]int64{"items_updated": cleared})
}

// putItem serves PUT /api/items/name/{name} and PUT /api/items/{id}/progress.
// ServeMux rejects the two as overlapping patterns, so they share one; for
// /api/items/name/progress the name route wins.
func (s *Server) putItem(w http.ResponseWriter, r *http.Request) {
	key, sub := r.PathValue("key"), r.PathValue("sub")
	switch {
	case key == "name":
		r.SetPathValue("name", sub)
		s.updateItem(w, r)
	case sub == "progress":
		r.SetPathValue("id", key)
		s.setItemProgress(w, r)
	default:
		s.fail(w, r, apperr.NotFound("route", "route not found"))
	}
}

// putStep serves PUT /api/steps/name/{name} and PUT /api/steps/{id}/status
// the same way putItem does.
func (s *Server) putStep(w http.ResponseWriter, r *http.Request) {
	key, sub := r.PathValue("key"), r.PathValue("sub")
	switch {
	case key == "name":
		r.SetPathValue("name", sub)
		s.updateStep(w, r)
	case sub == "status":
		r.SetPathValue("id", key)
		s.setStepStatus(w, r)
	default:
		s.fail(w, r, apperr.NotFound("route", "route not found"))
	}
}
