package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
	"github.com/evoassist/backend/internal/store"
)

// OrganizationStore implements store.OrganizationStore using in-memory
// storage.
type OrganizationStore struct {
	db *DB
}

// NewOrganizationStore creates a new in-memory organization store.
func NewOrganizationStore(db *DB) *OrganizationStore {
	return &OrganizationStore{db: db}
}

// Create inserts a new organization, enforcing global slug uniqueness.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.organizations {
		if existing.Slug == org.Slug {
			return store.ErrSlugAlreadyExists
		}
	}

	clone := *org
	s.db.organizations[org.ID] = &clone

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	org, exists := s.db.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// List returns a page of organizations ordered by creation time, with
// an optional case-insensitive substring filter on the name.
func (s *OrganizationStore) List(ctx context.Context, search string, page pagination.Params) ([]*models.Organization, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	needle := strings.ToLower(search)

	var result []*models.Organization
	for _, org := range s.db.organizations {
		if needle != "" && !strings.Contains(strings.ToLower(org.Name), needle) {
			continue
		}
		clone := *org
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

// Update applies a partial update to an organization.
func (s *OrganizationStore) Update(ctx context.Context, orgID uuid.UUID, patch *models.OrganizationPatch) (*models.Organization, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	org, exists := s.db.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	// Uniqueness check excludes the record's own slug.
	if patch.Slug != nil {
		for id, existing := range s.db.organizations {
			if id != orgID && existing.Slug == *patch.Slug {
				return nil, store.ErrSlugAlreadyExists
			}
		}
	}

	clone := *org
	if patch.Name != nil {
		clone.Name = *patch.Name
	}
	if patch.Slug != nil {
		clone.Slug = *patch.Slug
	}
	clone.UpdatedAt = time.Now()
	s.db.organizations[orgID] = &clone

	result := clone
	return &result, nil
}

// Delete removes an organization and cascades to every dependent
// entity, mirroring the foreign-key cascade in the postgres schema.
func (s *OrganizationStore) Delete(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	org, exists := s.db.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	delete(s.db.organizations, orgID)
	for id, v := range s.db.assistantVersions {
		if v.OrganizationID == orgID {
			delete(s.db.assistantVersions, id)
		}
	}
	for id, v := range s.db.evolutionInstances {
		if v.OrganizationID == orgID {
			delete(s.db.evolutionInstances, id)
		}
	}
	for id, v := range s.db.storageFiles {
		if v.OrganizationID == orgID {
			delete(s.db.storageFiles, id)
		}
	}
	for id, v := range s.db.evolutionAssistants {
		if v.OrganizationID == orgID {
			delete(s.db.evolutionAssistants, id)
		}
	}

	clone := *org
	return &clone, nil
}
