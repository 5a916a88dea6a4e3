package report

import "time"

// Productivity rolls an agent's whole tree into item counts.
type Productivity struct {
	AgentID    string            `json:"id"`
	AgentName  string            `json:"agentName"`
	AgentEmail string            `json:"agentEmail"`
	Statistics ProductivityStats `json:"statistics"`
}

type ProductivityStats struct {
	Spaces          int     `json:"spaces"`
	Checklists      int     `json:"checklists"`
	Items           int     `json:"items"`
	CompletedItems  int     `json:"completedItems"`
	InProgressItems int     `json:"inProgressItems"`
	CompletionRate  float64 `json:"completionRate"`
}

// ChecklistProgress folds a checklist's items and their steps.
type ChecklistProgress struct {
	ChecklistID    string         `json:"id"`
	ChecklistTitle string         `json:"checklistTitle"`
	SpaceTitle     string         `json:"spaceTitle"`
	Statistics     ChecklistStats `json:"statistics"`
	Items          []ItemProgress `json:"items"`
}

type ChecklistStats struct {
	TotalItems      int     `json:"totalItems"`
	CompletedItems  int     `json:"completedItems"`
	CompletionRate  float64 `json:"completionRate"`
	OverallProgress float64 `json:"overallProgress"`
}

type ItemProgress struct {
	ItemName       string  `json:"itemName"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	Progress       int     `json:"progress"`
	TotalSteps     int     `json:"totalSteps"`
	CompletedSteps int     `json:"completedSteps"`
	StepCompletion float64 `json:"stepCompletion"`
}

// DeadlineAnalysis covers every item that has a deadline.
type DeadlineAnalysis struct {
	ReportGenerated         time.Time        `json:"reportGenerated"`
	OverallStatistics       DeadlineStats    `json:"overallStatistics"`
	PriorityBreakdown       []PriorityBucket `json:"priorityBreakdown"`
	DeadlineStatusBreakdown []DeadlineBucket `json:"deadlineStatusBreakdown"`
	Alerts                  DeadlineAlerts   `json:"alerts"`
}

type DeadlineStats struct {
	TotalItemsWithDeadlines  int     `json:"totalItemsWithDeadlines"`
	OverdueItems             int     `json:"overdueItems"`
	UrgentItems              int     `json:"urgentItems"`
	AverageDaysUntilDeadline float64 `json:"averageDaysUntilDeadline"`
	AverageProgress          float64 `json:"averageProgress"`
}

type PriorityBucket struct {
	Priority          string  `json:"priority"`
	Count             int     `json:"count"`
	Overdue           int     `json:"overdue"`
	OverduePercentage float64 `json:"overduePercentage"`
}

type DeadlineBucket struct {
	DeadlineStatus  string  `json:"deadlineStatus"`
	Count           int     `json:"count"`
	Percentage      float64 `json:"percentage"`
	AverageProgress float64 `json:"averageProgress"`
}

type DeadlineAlerts struct {
	CriticalOverdueItems []AlertItem `json:"criticalOverdueItems"`
	UpcomingDeadlines    []AlertItem `json:"upcomingDeadlines"`
}

// AlertItem is an item with the titles of the nodes above it.
type AlertItem struct {
	ID        string    `json:"id"`
	ItemName  string    `json:"itemName"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Deadline  time.Time `json:"deadline"`
	Checklist string    `json:"checklist"`
	Space     string    `json:"space"`
	Agent     string    `json:"agent"`
}

// SpaceOverview is one space with its owner and checklists.
type SpaceOverview struct {
	SpaceID        string         `json:"id"`
	SpaceTitle     string         `json:"spaceTitle"`
	AgentName      string         `json:"agentName"`
	AgentEmail     string         `json:"agentEmail"`
	ChecklistCount int            `json:"checklistCount"`
	Checklists     []ChecklistRef `json:"checklists"`
}

type ChecklistRef struct {
	ChecklistID    string `json:"checklistId"`
	ChecklistTitle string `json:"checklistTitle"`
}
