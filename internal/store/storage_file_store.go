package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

// StorageFileStore defines storage operations for file records, scoped
// to the owning organization on every call.
type StorageFileStore interface {
	Create(ctx context.Context, file *models.StorageFile) error

	// Get retrieves a file by (id, orgID). A file owned by a different
	// organization is reported as ErrStorageFileNotFound.
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.StorageFile, error)

	List(ctx context.Context, orgID uuid.UUID, page pagination.Params) ([]*models.StorageFile, int, error)

	Update(ctx context.Context, orgID, id uuid.UUID, patch *models.StorageFilePatch) (*models.StorageFile, error)

	Delete(ctx context.Context, orgID, id uuid.UUID) (*models.StorageFile, error)
}
