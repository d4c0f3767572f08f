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

// EvolutionInstanceStore implements store.EvolutionInstanceStore using
// in-memory storage.
type EvolutionInstanceStore struct {
	db *DB
}

// NewEvolutionInstanceStore creates a new in-memory evolution instance store.
func NewEvolutionInstanceStore(db *DB) *EvolutionInstanceStore {
	return &EvolutionInstanceStore{db: db}
}

// Create inserts a new evolution instance.
func (s *EvolutionInstanceStore) Create(ctx context.Context, instance *models.EvolutionInstance) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	clone := *instance
	s.db.evolutionInstances[instance.ID] = &clone

	return nil
}

// Get retrieves an evolution instance by (id, orgID).
func (s *EvolutionInstanceStore) Get(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionInstance, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	instance, exists := s.db.evolutionInstances[id]
	if !exists || instance.OrganizationID != orgID {
		return nil, store.ErrEvolutionInstanceNotFound
	}

	clone := *instance
	return &clone, nil
}

// List returns a page of the organization's evolution instances ordered
// by creation time.
func (s *EvolutionInstanceStore) List(ctx context.Context, orgID uuid.UUID, page pagination.Params) ([]*models.EvolutionInstance, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.EvolutionInstance
	for _, instance := range s.db.evolutionInstances {
		if instance.OrganizationID != orgID {
			continue
		}
		clone := *instance
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
func (s *EvolutionInstanceStore) Update(ctx context.Context, orgID, id uuid.UUID, patch *models.EvolutionInstancePatch) (*models.EvolutionInstance, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	instance, exists := s.db.evolutionInstances[id]
	if !exists || instance.OrganizationID != orgID {
		return nil, store.ErrEvolutionInstanceNotFound
	}

	clone := *instance
	if patch.Instance != nil {
		clone.Instance = *patch.Instance
	}
	if patch.URL != nil {
		clone.URL = *patch.URL
	}
	if patch.Hash != nil {
		clone.Hash = *patch.Hash
	}
	clone.UpdatedAt = time.Now()
	s.db.evolutionInstances[id] = &clone

	result := clone
	return &result, nil
}

// Delete removes an evolution instance under the compound predicate and
// returns its last state. Evolution assistants referencing the instance
// go with it, matching the schema's cascade rule.
func (s *EvolutionInstanceStore) Delete(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionInstance, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	instance, exists := s.db.evolutionInstances[id]
	if !exists || instance.OrganizationID != orgID {
		return nil, store.ErrEvolutionInstanceNotFound
	}

	delete(s.db.evolutionInstances, id)
	for assistantID, assistant := range s.db.evolutionAssistants {
		if assistant.EvolutionInstanceID == id {
			delete(s.db.evolutionAssistants, assistantID)
		}
	}

	clone := *instance
	return &clone, nil
}
