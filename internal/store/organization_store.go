package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

// OrganizationStore defines storage operations for organizations, the
// roots of tenancy.
type OrganizationStore interface {
	// Create inserts a new organization. The caller supplies the slug
	// (derived from the name when the request omitted one). Returns
	// ErrSlugAlreadyExists when another organization holds the slug.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if it doesn't exist.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// List returns a page of organizations ordered by creation time,
	// along with the total count over the same filter. search, when
	// non-empty, is a case-insensitive substring match on the name.
	List(ctx context.Context, search string, page pagination.Params) ([]*models.Organization, int, error)

	// Update applies a partial update and returns the stored record.
	// Returns ErrOrganizationNotFound if the organization doesn't
	// exist, or ErrSlugAlreadyExists when the patch claims a slug held
	// by another organization.
	Update(ctx context.Context, orgID uuid.UUID, patch *models.OrganizationPatch) (*models.Organization, error)

	// Delete removes an organization and returns its last state.
	// All dependent assistant versions, evolution instances, storage
	// files and evolution assistants are removed in the same operation.
	// Returns ErrOrganizationNotFound if it doesn't exist.
	Delete(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)
}
