// Package report computes read-only statistics over the task tree. Every
// report is built fresh from the store on each call.
package report

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// alertLimit caps each alert list of the deadline analysis.
const alertLimit = 10

// Engine folds the tree into reports.
type Engine struct {
	repo store.Repo
	now  func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now as the reference point for deadline math.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine returns an Engine reading from r.
func NewEngine(r store.Repo, opts ...Option) *Engine {
	e := &Engine{repo: r, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// rate returns part/whole as a percentage rounded to two places, or 0.
func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(100 * float64(part) / float64(whole))
}

// AgentProductivity counts the spaces, checklists and items under agentID.
func (e *Engine) AgentProductivity(ctx context.Context, agentID string) (*Productivity, error) {
	const op = "generating agent productivity report"

	agent, err := e.repo.GetAgentByID(ctx, agentID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	rep := &Productivity{AgentID: agent.ID, AgentName: agent.Name, AgentEmail: agent.Email}
	st := &rep.Statistics

	spaces, err := e.repo.ListSpaces(ctx, store.SpaceFilter{AgentID: &agent.ID})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	st.Spaces = len(spaces)
	for _, sp := range spaces {
		checklists, err := e.repo.ListChecklists(ctx, store.ChecklistFilter{SpaceID: &sp.ID})
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		st.Checklists += len(checklists)
		for _, cl := range checklists {
			items, err := e.repo.ListItems(ctx, store.ItemFilter{ChecklistID: &cl.ID})
			if err != nil {
				return nil, apperr.Wrap(op, err)
			}
			st.Items += len(items)
			for _, it := range items {
				switch it.Status {
				case model.ItemStatusCompleted:
					st.CompletedItems++
				case model.ItemStatusInProgress:
					st.InProgressItems++
				}
			}
		}
	}
	st.CompletionRate = rate(st.CompletedItems, st.Items)
	return rep, nil
}

// ChecklistProgress reports step completion per item of checklistID and
// the checklist's overall completion.
func (e *Engine) ChecklistProgress(ctx context.Context, checklistID string) (*ChecklistProgress, error) {
	const op = "generating checklist progress report"

	checklist, err := e.repo.GetChecklistByID(ctx, checklistID)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	items, err := e.repo.ListItems(ctx, store.ItemFilter{ChecklistID: &checklist.ID})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	rep := &ChecklistProgress{
		ChecklistID:    checklist.ID,
		ChecklistTitle: checklist.ChecklistTitle,
		SpaceTitle:     checklist.SpaceTitle,
		Items:          make([]ItemProgress, 0, len(items)),
	}
	progressSum := 0
	for _, it := range items {
		steps, err := e.repo.ListSteps(ctx, store.StepFilter{ItemID: &it.ID})
		if err != nil {
			return nil, apperr.Wrap(op, err)
		}
		done := 0
		for _, s := range steps {
			if s.Status == model.StepStatusCompleted {
				done++
			}
		}
		rep.Items = append(rep.Items, ItemProgress{
			ItemName:       it.Name,
			Status:         it.Status,
			Priority:       it.Priority,
			Progress:       it.Progress,
			TotalSteps:     len(steps),
			CompletedSteps: done,
			StepCompletion: rate(done, len(steps)),
		})
		if it.Status == model.ItemStatusCompleted {
			rep.Statistics.CompletedItems++
		}
		progressSum += it.Progress
	}

	rep.Statistics.TotalItems = len(items)
	rep.Statistics.CompletionRate = rate(rep.Statistics.CompletedItems, len(items))
	if len(items) > 0 {
		rep.Statistics.OverallProgress = round2(float64(progressSum) / float64(len(items)))
	}
	return rep, nil
}

// SpaceOverview lists every space that has an owner, with its checklists,
// sorted by title.
func (e *Engine) SpaceOverview(ctx context.Context) ([]SpaceOverview, error) {
	const op = "generating space overview report"

	spaces, err := e.repo.ListSpaces(ctx, store.SpaceFilter{})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	agents, err := e.agentsByID(ctx)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	checklists, err := e.repo.ListChecklists(ctx, store.ChecklistFilter{})
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}
	bySpace := make(map[string][]ChecklistRef)
	for _, cl := range checklists {
		bySpace[cl.SpaceID] = append(bySpace[cl.SpaceID], ChecklistRef{
			ChecklistID:    cl.ID,
			ChecklistTitle: cl.ChecklistTitle,
		})
	}

	rows := make([]SpaceOverview, 0, len(spaces))
	for _, sp := range spaces {
		agent, ok := agents[sp.AgentID]
		if !ok {
			continue
		}
		refs := bySpace[sp.ID]
		if refs == nil {
			refs = []ChecklistRef{}
		}
		rows = append(rows, SpaceOverview{
			SpaceID:        sp.ID,
			SpaceTitle:     sp.SpaceTitle,
			AgentName:      agent.Name,
			AgentEmail:     agent.Email,
			ChecklistCount: len(refs),
			Checklists:     refs,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].SpaceTitle < rows[j].SpaceTitle })
	return rows, nil
}

func (e *Engine) agentsByID(ctx context.Context) (map[string]model.Agent, error) {
	agents, err := e.repo.ListAgents(ctx, store.AgentFilter{})
	if err != nil {
		return nil, err
	}
	m := make(map[string]model.Agent, len(agents))
	for _, a := range agents {
		m[a.ID] = a
	}
	return m, nil
}
