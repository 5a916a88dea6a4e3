package model

import "time"

// Agent is a registered owner of a task tree. It is the root of the
// Agent -> Space -> Checklist -> Item -> Step hierarchy.
type Agent struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`

	// Password is stored and compared verbatim. It is never serialized.
	Password string `json:"-" db:"password"`

	Spaces    IDList    `json:"spaces" db:"spaces"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AgentSummary is what a successful login returns.
type AgentSummary struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Email  string         `json:"email"`
	Spaces []SpaceSummary `json:"spaces"`
}

// SpaceSummary is a space with the id/title pairs of its checklists.
type SpaceSummary struct {
	ID         string         `json:"id"`
	SpaceTitle string         `json:"space_title"`
	Checklists []ChecklistRef `json:"checklist"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ChecklistRef is a checklist reduced to its identifier and title.
type ChecklistRef struct {
	ID             string `json:"id"`
	ChecklistTitle string `json:"checklist_title"`
}
