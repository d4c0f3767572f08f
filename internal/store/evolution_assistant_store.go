package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

// EvolutionAssistantStore defines storage operations for the join
// entity binding an assistant version to an evolution instance.
//
// Create and Update validate that every referenced entity exists AND
// belongs to the record's organization before any write is issued; a
// failed reference check surfaces as ErrAssistantVersionRefInvalid or
// ErrEvolutionInstanceRefInvalid and leaves the store unchanged.
type EvolutionAssistantStore interface {
	// Create inserts the join record and populates its eager reference
	// fields in the same operation, so callers never need a follow-up
	// read that could race a concurrent delete.
	Create(ctx context.Context, assistant *models.EvolutionAssistant) error

	// Get retrieves an assistant by (id, orgID) with its referenced
	// assistant version and evolution instance eagerly loaded.
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionAssistant, error)

	// List returns a page of the organization's assistants, newest
	// first, with references eagerly loaded. env narrows the result to
	// one environment when non-empty.
	List(ctx context.Context, orgID uuid.UUID, env models.Environment, page pagination.Params) ([]*models.EvolutionAssistant, int, error)

	// Update applies a partial update under the compound (id, orgID)
	// predicate. Reference fields present in the patch are revalidated;
	// omitted fields are not.
	Update(ctx context.Context, orgID, id uuid.UUID, patch *models.EvolutionAssistantPatch) (*models.EvolutionAssistant, error)

	Delete(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionAssistant, error)
}
