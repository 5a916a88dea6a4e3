package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskspace/internal/model"
	"github.com/nhle/taskspace/internal/report"
	"github.com/nhle/taskspace/internal/theme"
	"github.com/nhle/taskspace/internal/tree"
)

// emit writes v as indented JSON when --json is set, otherwise the text
// produced by render.
func emit(w io.Writer, v any, render func() string) error {
	if jsonOutput {
		return writeJSON(w, v)
	}
	_, err := fmt.Fprintln(w, render())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func done(w io.Writer, msg string) {
	if jsonOutput {
		return
	}
	fmt.Fprintln(w, theme.SuccessStyle.Render("✓ "+msg))
}

func row(label string, value any) string {
	return theme.LabelStyle.Render(label) + fmt.Sprint(value)
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func deadlineText(d *time.Time) string {
	if d == nil {
		return theme.MutedStyle.Render("no deadline")
	}
	return d.Format("2006-01-02 15:04")
}

func itemLine(it model.Item) string {
	return fmt.Sprintf("%s  %s  %s  %3d%%  %s",
		it.Name,
		theme.PriorityStyle(it.Priority).Render(it.Priority),
		theme.StatusStyle(it.Status).Render(it.Status),
		it.Progress,
		deadlineText(it.Deadline),
	)
}

func renderProductivity(p *report.Productivity) string {
	st := p.Statistics
	lines := []string{
		theme.HeaderStyle.Render("Productivity: " + p.AgentName),
		theme.MutedStyle.Render(p.AgentEmail),
		"",
		row("Spaces", st.Spaces),
		row("Checklists", st.Checklists),
		row("Items", st.Items),
		row("Completed", st.CompletedItems),
		row("In progress", st.InProgressItems),
		row("Completion rate", pct(st.CompletionRate)),
	}
	return theme.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderChecklistProgress(c *report.ChecklistProgress) string {
	st := c.Statistics
	lines := []string{
		theme.HeaderStyle.Render("Checklist: " + c.ChecklistTitle),
		theme.MutedStyle.Render("in " + c.SpaceTitle),
		"",
		row("Items", st.TotalItems),
		row("Completed", st.CompletedItems),
		row("Completion rate", pct(st.CompletionRate)),
		row("Overall progress", pct(st.OverallProgress)),
	}
	if len(c.Items) > 0 {
		lines = append(lines, theme.SectionStyle.Render("Items"))
		for _, it := range c.Items {
			lines = append(lines, fmt.Sprintf("%s  %s  %s  %d%%  steps %d/%d (%s)",
				it.ItemName,
				theme.PriorityStyle(it.Priority).Render(it.Priority),
				theme.StatusStyle(it.Status).Render(it.Status),
				it.Progress,
				it.CompletedSteps, it.TotalSteps,
				pct(it.StepCompletion),
			))
		}
	}
	return theme.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func alertLine(a report.AlertItem) string {
	return fmt.Sprintf("%s  %s  due %s  %s",
		a.ItemName,
		theme.PriorityStyle(a.Priority).Render(a.Priority),
		a.Deadline.Format("2006-01-02 15:04"),
		theme.MutedStyle.Render(a.Agent+" / "+a.Space+" / "+a.Checklist),
	)
}

func renderDeadlines(d *report.DeadlineAnalysis) string {
	st := d.OverallStatistics
	lines := []string{
		theme.HeaderStyle.Render("Deadline analysis"),
		theme.MutedStyle.Render("generated " + d.ReportGenerated.Format(time.RFC3339)),
		"",
		row("Items with deadlines", st.TotalItemsWithDeadlines),
		row("Overdue", st.OverdueItems),
		row("Due within 3 days", st.UrgentItems),
		row("Avg days until deadline", fmt.Sprintf("%.2f", st.AverageDaysUntilDeadline)),
		row("Avg progress", pct(st.AverageProgress)),
	}

	if len(d.PriorityBreakdown) > 0 {
		lines = append(lines, theme.SectionStyle.Render("By priority"))
		for _, p := range d.PriorityBreakdown {
			lines = append(lines, theme.LabelStyle.Render(theme.PriorityStyle(p.Priority).Render(p.Priority))+
				fmt.Sprintf("%d items, %d overdue (%s)", p.Count, p.Overdue, pct(p.OverduePercentage)))
		}
	}
	if len(d.DeadlineStatusBreakdown) > 0 {
		lines = append(lines, theme.SectionStyle.Render("By deadline"))
		for _, b := range d.DeadlineStatusBreakdown {
			lines = append(lines, theme.LabelStyle.Render(theme.BucketStyle(b.DeadlineStatus).Render(b.DeadlineStatus))+
				fmt.Sprintf("%d items (%s), avg progress %s", b.Count, pct(b.Percentage), pct(b.AverageProgress)))
		}
	}
	if len(d.Alerts.CriticalOverdueItems) > 0 {
		lines = append(lines, theme.SectionStyle.Render("Overdue"))
		for _, a := range d.Alerts.CriticalOverdueItems {
			lines = append(lines, alertLine(a))
		}
	}
	if len(d.Alerts.UpcomingDeadlines) > 0 {
		lines = append(lines, theme.SectionStyle.Render("Upcoming"))
		for _, a := range d.Alerts.UpcomingDeadlines {
			lines = append(lines, alertLine(a))
		}
	}
	return theme.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderSpaceOverview(spaces []report.SpaceOverview) string {
	if len(spaces) == 0 {
		return theme.MutedStyle.Render("no spaces")
	}
	var b strings.Builder
	for i, sp := range spaces {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(theme.SectionStyle.UnsetMarginTop().Render(sp.SpaceTitle))
		fmt.Fprintf(&b, "  %s <%s>, %d checklists\n", sp.AgentName, sp.AgentEmail, sp.ChecklistCount)
		for _, c := range sp.Checklists {
			fmt.Fprintf(&b, "    - %s %s\n", c.ChecklistTitle, theme.MutedStyle.Render(c.ChecklistID))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderChecklistItems(c *tree.ChecklistItems) string {
	st := c.Statistics
	lines := []string{
		theme.HeaderStyle.Render(c.Checklist.ChecklistTitle),
		fmt.Sprintf("%d items: %d completed, %d in progress, %d pending, %d high priority, %d overdue (%d%% done)",
			st.Total, st.Completed, st.InProgress, st.Pending, st.HighPriority, st.Overdue, st.CompletionRate),
		"",
	}
	for _, it := range c.Items {
		lines = append(lines, itemLine(it))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderItemSteps(s *tree.ItemSteps) string {
	st := s.Statistics
	lines := []string{
		theme.HeaderStyle.Render(s.Item.Name),
		fmt.Sprintf("%d steps: %d completed, %d in progress, %d pending (%d%% done)",
			st.Total, st.Completed, st.InProgress, st.Pending, st.CompletionRate),
		"",
	}
	for _, step := range s.Steps {
		lines = append(lines, fmt.Sprintf("%s  %s  %s",
			step.StepName,
			theme.StatusStyle(step.Status).Render(step.Status),
			theme.MutedStyle.Render(step.ID),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
