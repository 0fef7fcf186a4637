package project

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists projects. FindByID, Update and Delete report
// shared.ErrNotFound when no project has the given id.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Project, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (*Stats, error)
}
