package model

import (
	"math"
	"time"
)

// Item priority values.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
	PriorityUrgent = "Urgent"
)

// Item status values.
const (
	ItemStatusPending    = "Pending"
	ItemStatusInProgress = "In Progress"
	ItemStatusCompleted  = "Completed"
	ItemStatusCancelled  = "Cancelled"
)

// Item is a task within one checklist. Its Progress and Status are derived
// from its steps whenever a step is created or changes status, and may also
// be set directly through a manual progress override.
type Item struct {
	ID          string     `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	Priority    string     `json:"priority" db:"priority"`
	Status      string     `json:"status" db:"status"`
	Progress    int        `json:"progress" db:"progress"`
	Deadline    *time.Time `json:"deadline" db:"deadline"`
	ChecklistID string     `json:"checklist_id" db:"checklist_id"`
	CategoryID  *string    `json:"category_id" db:"category_id"`
	Steps       IDList     `json:"steps" db:"steps"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ValidPriority reports whether p is one of the item priority values.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PriorityRank orders priorities by severity, Low lowest. Unknown values
// rank below Low.
func PriorityRank(p string) int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

// ValidItemStatus reports whether s is one of the item status values.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPending, ItemStatusInProgress, ItemStatusCompleted, ItemStatusCancelled:
		return true
	}
	return false
}

// StatusForProgress maps a progress percentage to an item status:
// 100 is Completed, anything above 0 is In Progress, 0 is Pending.
func StatusForProgress(progress int) string {
	switch {
	case progress >= 100:
		return ItemStatusCompleted
	case progress > 0:
		return ItemStatusInProgress
	default:
		return ItemStatusPending
	}
}

// ValidProgress reports whether p is within 0..100.
func ValidProgress(p int) bool {
	return p >= 0 && p <= 100
}

// DeriveProgress folds a step set into an item's progress and status.
// ok is false when steps is empty; the item keeps whatever it had.
func DeriveProgress(steps []Step) (progress int, status string, ok bool) {
	if len(steps) == 0 {
		return 0, "", false
	}
	completed := 0
	for _, s := range steps {
		if s.Status == StepStatusCompleted {
			completed++
		}
	}
	progress = int(math.Round(100 * float64(completed) / float64(len(steps))))
	return progress, StatusForProgress(progress), true
}

// IsOverdue reports whether the item's deadline has passed at now and the
// item is not completed.
func (i Item) IsOverdue(now time.Time) bool {
	return i.Deadline != nil && i.Deadline.Before(now) && i.Status != ItemStatusCompleted
}
