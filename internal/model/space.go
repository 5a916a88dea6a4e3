package model

import "time"

// Space is a top-level project grouping owned by exactly one agent.
type Space struct {
	ID         string    `json:"id" db:"id"`
	SpaceTitle string    `json:"space_title" db:"space_title"`
	AgentID    string    `json:"agent_id" db:"agent_id"`
	Checklists IDList    `json:"checklist" db:"checklists"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
