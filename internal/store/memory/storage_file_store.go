package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
	"github.com/evoassist/backend/internal/store"
)

// StorageFileStore implements store.StorageFileStore using in-memory
// storage.
type StorageFileStore struct {
	db *DB
}

// NewStorageFileStore creates a new in-memory storage file store.
func NewStorageFileStore(db *DB) *StorageFileStore {
	return &StorageFileStore{db: db}
}

// Create inserts a new storage file record.
func (s *StorageFileStore) Create(ctx context.Context, file *models.StorageFile) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	clone := *file
	s.db.storageFiles[file.ID] = &clone

	return nil
}

// Get retrieves a storage file by (id, orgID).
func (s *StorageFileStore) Get(ctx context.Context, orgID, id uuid.UUID) (*models.StorageFile, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	file, exists := s.db.storageFiles[id]
	if !exists || file.OrganizationID != orgID {
		return nil, store.ErrStorageFileNotFound
	}

	clone := *file
	return &clone, nil
}

// List returns a page of the organization's storage files ordered by
// creation time.
func (s *StorageFileStore) List(ctx context.Context, orgID uuid.UUID, page pagination.Params) ([]*models.StorageFile, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.StorageFile
	for _, file := range s.db.storageFiles {
		if file.OrganizationID != orgID {
			continue
		}
		clone := *file
		result = append(result, &clone)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	return paginate(result, page), len(result), nil
}

// Update applies a partial update under the compound (id, orgID)
// predicate.
func (s *StorageFileStore) Update(ctx context.Context, orgID, id uuid.UUID, patch *models.StorageFilePatch) (*models.StorageFile, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	file, exists := s.db.storageFiles[id]
	if !exists || file.OrganizationID != orgID {
		return nil, store.ErrStorageFileNotFound
	}

	clone := *file
	if patch.Filename != nil {
		clone.Filename = *patch.Filename
	}
	if patch.Description.Set {
		clone.Description = patch.Description.Value
	}
	if patch.URL != nil {
		clone.URL = *patch.URL
	}
	clone.UpdatedAt = time.Now()
	s.db.storageFiles[id] = &clone

	result := clone
	return &result, nil
}

// Delete removes a storage file under the compound predicate and
// returns its last state.
func (s *StorageFileStore) Delete(ctx context.Context, orgID, id uuid.UUID) (*models.StorageFile, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	file, exists := s.db.storageFiles[id]
	if !exists || file.OrganizationID != orgID {
		return nil, store.ErrStorageFileNotFound
	}

	delete(s.db.storageFiles, id)

	clone := *file
	return &clone, nil
}
