package report

import (
	"context"
	"sort"

	"github.com/nhle/taskspace/internal/apperr"
	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/store"
)

// dated is an item with a deadline joined to its ancestors.
type dated struct {
	item      model.Item
	checklist string
	space     string
	agent     string
}

func (d dated) alert() AlertItem {
	return AlertItem{
		ID:        d.item.ID,
		ItemName:  d.item.Name,
		Priority:  d.item.Priority,
		Status:    d.item.Status,
		Progress:  d.item.Progress,
		Deadline:  *d.item.Deadline,
		Checklist: d.checklist,
		Space:     d.space,
		Agent:     d.agent,
	}
}

// DeadlineAnalysis buckets every dated item by time left and lists the
// most pressing ones. Items whose checklist, space or agent is missing
// are skipped.
func (e *Engine) DeadlineAnalysis(ctx context.Context) (*DeadlineAnalysis, error) {
	const op = "generating deadline analysis report"
	now := e.now().UTC()

	rows, err := e.datedItems(ctx)
	if err != nil {
		return nil, apperr.Wrap(op, err)
	}

	rep := &DeadlineAnalysis{
		ReportGenerated:         now,
		PriorityBreakdown:       []PriorityBucket{},
		DeadlineStatusBreakdown: []DeadlineBucket{},
		Alerts: DeadlineAlerts{
			CriticalOverdueItems: []AlertItem{},
			UpcomingDeadlines:    []AlertItem{},
		},
	}
	if len(rows) == 0 {
		return rep, nil
	}

	type bucketAcc struct{ count, progress int }
	byBucket := make(map[string]*bucketAcc)
	byPriority := make(map[string]*PriorityBucket)

	var (
		daysSum     float64
		progressSum int
		overdue     []dated
		upcoming    []dated
	)
	st := &rep.OverallStatistics
	for _, r := range rows {
		dl := *r.item.Deadline
		left := dl.Sub(now)
		isOverdue := dl.Before(now)

		st.TotalItemsWithDeadlines++
		daysSum += left.Hours() / 24
		progressSum += r.item.Progress
		if isOverdue {
			st.OverdueItems++
		}
		if dl.After(now) && left <= 3*day {
			st.UrgentItems++
		}

		b := Bucket(dl, now)
		if byBucket[b] == nil {
			byBucket[b] = &bucketAcc{}
		}
		byBucket[b].count++
		byBucket[b].progress += r.item.Progress

		p := byPriority[r.item.Priority]
		if p == nil {
			p = &PriorityBucket{Priority: r.item.Priority}
			byPriority[r.item.Priority] = p
		}
		p.Count++
		if isOverdue {
			p.Overdue++
		}

		if r.item.Status == model.ItemStatusCompleted {
			continue
		}
		if isOverdue {
			overdue = append(overdue, r)
		} else if dl.After(now) && left <= 7*day {
			upcoming = append(upcoming, r)
		}
	}

	n := float64(st.TotalItemsWithDeadlines)
	st.AverageDaysUntilDeadline = round2(daysSum / n)
	st.AverageProgress = round2(float64(progressSum) / n)

	for _, p := range byPriority {
		p.OverduePercentage = rate(p.Overdue, p.Count)
		rep.PriorityBreakdown = append(rep.PriorityBreakdown, *p)
	}
	sort.Slice(rep.PriorityBreakdown, func(i, j int) bool {
		return model.PriorityRank(rep.PriorityBreakdown[i].Priority) <
			model.PriorityRank(rep.PriorityBreakdown[j].Priority)
	})

	for _, name := range bucketOrder {
		acc := byBucket[name]
		if acc == nil {
			continue
		}
		rep.DeadlineStatusBreakdown = append(rep.DeadlineStatusBreakdown, DeadlineBucket{
			DeadlineStatus:  name,
			Count:           acc.count,
			Percentage:      rate(acc.count, st.TotalItemsWithDeadlines),
			AverageProgress: round2(float64(acc.progress) / float64(acc.count)),
		})
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		pi, pj := model.PriorityRank(overdue[i].item.Priority), model.PriorityRank(overdue[j].item.Priority)
		if pi != pj {
			return pi > pj
		}
		return overdue[i].item.Deadline.Before(*overdue[j].item.Deadline)
	})
	sort.SliceStable(upcoming, func(i, j int) bool {
		di, dj := *upcoming[i].item.Deadline, *upcoming[j].item.Deadline
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return model.PriorityRank(upcoming[i].item.Priority) > model.PriorityRank(upcoming[j].item.Priority)
	})
	for i := 0; i < len(overdue) && i < alertLimit; i++ {
		rep.Alerts.CriticalOverdueItems = append(rep.Alerts.CriticalOverdueItems, overdue[i].alert())
	}
	for i := 0; i < len(upcoming) && i < alertLimit; i++ {
		rep.Alerts.UpcomingDeadlines = append(rep.Alerts.UpcomingDeadlines, upcoming[i].alert())
	}
	return rep, nil
}

// datedItems joins every item with a deadline to its checklist, space and
// agent titles.
func (e *Engine) datedItems(ctx context.Context) ([]dated, error) {
	items, err := e.repo.ListItems(ctx, store.ItemFilter{HasDeadline: true})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	checklists, err := e.repo.ListChecklists(ctx, store.ChecklistFilter{})
	if err != nil {
		return nil, err
	}
	spaces, err := e.repo.ListSpaces(ctx, store.SpaceFilter{})
	if err != nil {
		return nil, err
	}
	agents, err := e.agentsByID(ctx)
	if err != nil {
		return nil, err
	}

	clByID := make(map[string]model.Checklist, len(checklists))
	for _, c := range checklists {
		clByID[c.ID] = c
	}
	spByID := make(map[string]model.Space, len(spaces))
	for _, s := range spaces {
		spByID[s.ID] = s
	}

	rows := make([]dated, 0, len(items))
	for _, it := range items {
		if it.Deadline == nil {
			continue
		}
		cl, ok := clByID[it.ChecklistID]
		if !ok {
			continue
		}
		sp, ok := spByID[cl.SpaceID]
		if !ok {
			continue
		}
		ag, ok := agents[sp.AgentID]
		if !ok {
			continue
		}
		rows = append(rows, dated{item: it, checklist: cl.ChecklistTitle, space: sp.SpaceTitle, agent: ag.Name})
	}
	return rows, nil
}
