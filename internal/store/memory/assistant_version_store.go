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

// AssistantVersionStore implements store.AssistantVersionStore using
// in-memory storage.
type AssistantVersionStore struct {
	db *DB
}

// NewAssistantVersionStore creates a new in-memory assistant version store.
func NewAssistantVersionStore(db *DB) *AssistantVersionStore {
	return &AssistantVersionStore{db: db}
}

// Create inserts a new assistant version.
func (s *AssistantVersionStore) Create(ctx context.Context, version *models.AssistantVersion) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	clone := *version
	s.db.assistantVersions[version.ID] = &clone

	return nil
}

// Get retrieves an assistant version by (id, orgID).
func (s *AssistantVersionStore) Get(ctx context.Context, orgID, id uuid.UUID) (*models.AssistantVersion, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	version, exists := s.db.assistantVersions[id]
	if !exists || version.OrganizationID != orgID {
		return nil, store.ErrAssistantVersionNotFound
	}

	clone := *version
	return &clone, nil
}

// List returns a page of the organization's assistant versions ordered
// by creation time.
func (s *AssistantVersionStore) List(ctx context.Context, orgID uuid.UUID, page pagination.Params) ([]*models.AssistantVersion, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.AssistantVersion
	for _, version := range s.db.assistantVersions {
		if version.OrganizationID != orgID {
			continue
		}
		clone := *version
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
func (s *AssistantVersionStore) Update(ctx context.Context, orgID, id uuid.UUID, patch *models.AssistantVersionPatch) (*models.AssistantVersion, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	version, exists := s.db.assistantVersions[id]
	if !exists || version.OrganizationID != orgID {
		return nil, store.ErrAssistantVersionNotFound
	}

	clone := *version
	if patch.Model != nil {
		clone.Model = *patch.Model
	}
	if patch.Instructions != nil {
		clone.Instructions = *patch.Instructions
	}
	if patch.Functions.Set {
		if patch.Functions.Value == nil {
			clone.Functions = nil
		} else {
			clone.Functions = *patch.Functions.Value
		}
	}
	if patch.Temperature != nil {
		clone.Temperature = *patch.Temperature
	}
	if patch.Version != nil {
		clone.Version = *patch.Version
	}
	if patch.Published != nil {
		clone.Published = *patch.Published
	}
	clone.UpdatedAt = time.Now()
	s.db.assistantVersions[id] = &clone

	result := clone
	return &result, nil
}

// Delete removes an assistant version under the compound predicate and
// returns its last state. Evolution assistants referencing the version
// go with it, matching the schema's cascade rule.
func (s *AssistantVersionStore) Delete(ctx context.Context, orgID, id uuid.UUID) (*models.AssistantVersion, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	version, exists := s.db.assistantVersions[id]
	if !exists || version.OrganizationID != orgID {
		return nil, store.ErrAssistantVersionNotFound
	}

	delete(s.db.assistantVersions, id)
	for assistantID, assistant := range s.db.evolutionAssistants {
		if assistant.AssistantVersionID == id {
			delete(s.db.evolutionAssistants, assistantID)
		}
	}

	clone := *version
	return &clone, nil
}
