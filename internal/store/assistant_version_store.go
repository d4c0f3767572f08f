package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

// AssistantVersionStore defines storage operations for assistant
// versions, scoped to the owning organization on every call.
type AssistantVersionStore interface {
	// Create inserts a new assistant version under its organization.
	Create(ctx context.Context, version *models.AssistantVersion) error

	// Get retrieves a version by (id, orgID). A version owned by a
	// different organization is reported as ErrAssistantVersionNotFound.
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.AssistantVersion, error)

	// List returns a page of the organization's versions ordered by
	// creation time, plus the total count.
	List(ctx context.Context, orgID uuid.UUID, page pagination.Params) ([]*models.AssistantVersion, int, error)

	// Update applies a partial update under the compound (id, orgID)
	// predicate and returns the stored record.
	Update(ctx context.Context, orgID, id uuid.UUID, patch *models.AssistantVersionPatch) (*models.AssistantVersion, error)

	// Delete removes a version under the compound predicate and
	// returns its last state.
	Delete(ctx context.Context, orgID, id uuid.UUID) (*models.AssistantVersion, error)
}
