package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

// EvolutionInstanceStore defines storage operations for evolution
// instances, scoped to the owning organization on every call.
type EvolutionInstanceStore interface {
	Create(ctx context.Context, instance *models.EvolutionInstance) error

	// Get retrieves an instance by (id, orgID). An instance owned by a
	// different organization is reported as ErrEvolutionInstanceNotFound.
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionInstance, error)

	List(ctx context.Context, orgID uuid.UUID, page pagination.Params) ([]*models.EvolutionInstance, int, error)

	Update(ctx context.Context, orgID, id uuid.UUID, patch *models.EvolutionInstancePatch) (*models.EvolutionInstance, error)

	Delete(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionInstance, error)
}
