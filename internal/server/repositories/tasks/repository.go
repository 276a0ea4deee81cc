package tasks

import (
	"context"

	"github.com/tenkil247/taskmanager/internal/server/models"
)

// Filter narrows a listing; nil fields are ignored.
type Filter struct {
	Completed *bool
}

// Sort selects a single whitelisted field; ascending unless Desc.
type Sort struct {
	Field string
	Desc  bool
}

// Page applies limit/skip pagination; zero values mean "no limit"/"no skip".
type Page struct {
	Limit int
	Skip  int
}

// Repository is owner-scoped: every lookup and mutation carries the owning
// user's id so a foreign task behaves exactly like a missing one.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, ownerID string, taskID string) (*models.Task, error)
	List(ctx context.Context, ownerID string, f Filter, s Sort, p Page) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, ownerID string, taskID string) error
	DeleteAllForOwner(ctx context.Context, ownerID string) error
}
