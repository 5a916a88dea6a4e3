package model

import "time"

// Step status values.
const (
	StepStatusPending    = "Pending"
	StepStatusInProgress = "In Progress"
	StepStatusCompleted  = "Completed"
	StepStatusUrgent     = "Urgent"
)

// Step is a sub-task of an item. It is the leaf of the ownership tree.
type Step struct {
	ID        string    `json:"id" db:"id"`
	StepName  string    `json:"step_name" db:"step_name"`
	Status    string    `json:"status" db:"status"`
	ItemID    string    `json:"item_id" db:"item_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidStepStatus reports whether s is one of the step status values.
func ValidStepStatus(s string) bool {
	switch s {
	case StepStatusPending, StepStatusInProgress, StepStatusCompleted, StepStatusUrgent:
		return true
	}
	return false
}
