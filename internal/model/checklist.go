package model

import "time"

// Checklist is a named list of items within one space.
type Checklist struct {
	ID             string `json:"id" db:"id"`
	ChecklistTitle string `json:"checklist_title" db:"checklist_title"`
	SpaceID        string `json:"space_id" db:"space_id"`

	// SpaceTitle is a display copy of the owning space's title taken at
	// creation time. It is not kept in sync and is never used for lookups.
	SpaceTitle string `json:"space_title" db:"space_title"`

	Items     IDList    `json:"items" db:"items"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
