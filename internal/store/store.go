package store

import (
	"context"

	"github.com/nhle/taskspace/internal/model"
)

// AgentFilter narrows agent listings. Name and Email are case-insensitive
// substring matches.
type AgentFilter struct {
	Name  *string
	Email *string
}

// SpaceFilter narrows space listings.
type SpaceFilter struct {
	Title   *string // case-insensitive substring
	AgentID *string
}

// ChecklistFilter narrows checklist listings.
type ChecklistFilter struct {
	Title   *string // case-insensitive substring
	SpaceID *string
}

// ItemFilter narrows item listings.
type ItemFilter struct {
	Name        *string // case-insensitive substring
	Status      *string
	Priority    *string
	ChecklistID *string
	CategoryID  *string
	HasDeadline bool // only items with a non-null deadline
}

// StepFilter narrows step listings.
type StepFilter struct {
	Name   *string // case-insensitive substring
	Status *string
	ItemID *string
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Name *string // case-insensitive substring
}

// Repo is the per-collection persistence surface: CRUD keyed by id, first
// match lookups by name or title, equality filters, and push/pull
// maintenance of the ordered membership lists. Every Repo obtained inside
// WithTx shares that transaction.
//
// Find* lookups return the earliest created match; names and titles are
// not unique, so a lookup may be ambiguous.
type Repo interface {
	// === Agents ===

	CreateAgent(ctx context.Context, agent *model.Agent) error
	UpdateAgent(ctx context.Context, agent *model.Agent) error
	DeleteAgent(ctx context.Context, id string) error
	GetAgentByID(ctx context.Context, id string) (*model.Agent, error)
	GetAgentByEmail(ctx context.Context, email string) (*model.Agent, error)
	FindAgentByName(ctx context.Context, name string) (*model.Agent, error)
	ListAgents(ctx context.Context, filter AgentFilter) ([]model.Agent, error)
	PushAgentSpace(ctx context.Context, agentID, spaceID string) error
	PullAgentSpace(ctx context.Context, agentID, spaceID string) error

	// === Spaces ===

	CreateSpace(ctx context.Context, space *model.Space) error
	UpdateSpace(ctx context.Context, space *model.Space) error
	DeleteSpace(ctx context.Context, id string) error
	GetSpaceByID(ctx context.Context, id string) (*model.Space, error)
	GetSpaceByExactTitle(ctx context.Context, title string) (*model.Space, error)
	FindSpaceByTitle(ctx context.Context, title string) (*model.Space, error)
	ListSpaces(ctx context.Context, filter SpaceFilter) ([]model.Space, error)
	PushSpaceChecklist(ctx context.Context, spaceID, checklistID string) error
	PullSpaceChecklist(ctx context.Context, spaceID, checklistID string) error

	// === Checklists ===

	CreateChecklist(ctx context.Context, checklist *model.Checklist) error
	UpdateChecklist(ctx context.Context, checklist *model.Checklist) error
	DeleteChecklist(ctx context.Context, id string) error
	GetChecklistByID(ctx context.Context, id string) (*model.Checklist, error)
	FindChecklistByTitle(ctx context.Context, title string) (*model.Checklist, error)
	ListChecklists(ctx context.Context, filter ChecklistFilter) ([]model.Checklist, error)
	PushChecklistItem(ctx context.Context, checklistID, itemID string) error
	PullChecklistItem(ctx context.Context, checklistID, itemID string) error

	// === Items ===

	CreateItem(ctx context.Context, item *model.Item) error
	UpdateItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id string) error
	GetItemByID(ctx context.Context, id string) (*model.Item, error)
	FindItemByName(ctx context.Context, name string) (*model.Item, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]model.Item, error)
	ClearItemCategory(ctx context.Context, categoryID string) (int64, error)
	PushItemStep(ctx context.Context, itemID, stepID string) error
	PullItemStep(ctx context.Context, itemID, stepID string) error

	// === Steps ===

	CreateStep(ctx context.Context, step *model.Step) error
	UpdateStep(ctx context.Context, step *model.Step) error
	DeleteStep(ctx context.Context, id string) error
	GetStepByID(ctx context.Context, id string) (*model.Step, error)
	FindStepByName(ctx context.Context, name string) (*model.Step, error)
	ListSteps(ctx context.Context, filter StepFilter) ([]model.Step, error)

	// === Categories ===

	CreateCategory(ctx context.Context, category *model.Category) error
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*model.Category, error)
	ListCategories(ctx context.Context, filter CategoryFilter) ([]model.Category, error)
	PushCategoryItem(ctx context.Context, categoryID, itemID string) error
	PullCategoryItem(ctx context.Context, categoryID, itemID string) error
}

// Store is the storage collaborator used by the tree and report engines.
type Store interface {
	Repo

	// WithTx runs fn inside a single transaction. If fn returns an error
	// (or panics) every write made through the supplied Repo is rolled back.
	WithTx(ctx context.Context, fn func(tx Repo) error) error

	// Ping checks that the underlying database is reachable.
	Ping(ctx context.Context) error

	Close() error
}
