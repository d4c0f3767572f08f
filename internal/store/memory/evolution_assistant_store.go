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

// EvolutionAssistantStore implements store.EvolutionAssistantStore
// using in-memory storage.
type EvolutionAssistantStore struct {
	db *DB
}

// NewEvolutionAssistantStore creates a new in-memory evolution
// assistant store.
func NewEvolutionAssistantStore(db *DB) *EvolutionAssistantStore {
	return &EvolutionAssistantStore{db: db}
}

// validateRefs checks that both references exist and belong to orgID.
// Caller must hold the lock.
func (s *EvolutionAssistantStore) validateRefs(orgID uuid.UUID, versionID, instanceID *uuid.UUID) error {
	if versionID != nil {
		version, exists := s.db.assistantVersions[*versionID]
		if !exists || version.OrganizationID != orgID {
			return store.ErrAssistantVersionRefInvalid
		}
	}
	if instanceID != nil {
		instance, exists := s.db.evolutionInstances[*instanceID]
		if !exists || instance.OrganizationID != orgID {
			return store.ErrEvolutionInstanceRefInvalid
		}
	}
	return nil
}

// attachRefs eagerly loads the referenced version and instance onto a
// cloned record. Caller must hold the lock.
func (s *EvolutionAssistantStore) attachRefs(assistant *models.EvolutionAssistant) {
	if version, exists := s.db.assistantVersions[assistant.AssistantVersionID]; exists {
		clone := *version
		assistant.AssistantVersion = &clone
	}
	if instance, exists := s.db.evolutionInstances[assistant.EvolutionInstanceID]; exists {
		clone := *instance
		assistant.EvolutionInstance = &clone
	}
}

// Create validates both references against the owning organization and
// inserts the join record only when both pass. The caller's record gets
// its eager reference fields filled in under the same lock.
func (s *EvolutionAssistantStore) Create(ctx context.Context, assistant *models.EvolutionAssistant) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if err := s.validateRefs(assistant.OrganizationID, &assistant.AssistantVersionID, &assistant.EvolutionInstanceID); err != nil {
		return err
	}

	clone := *assistant
	clone.AssistantVersion = nil
	clone.EvolutionInstance = nil
	s.db.evolutionAssistants[assistant.ID] = &clone

	s.attachRefs(assistant)

	return nil
}

// Get retrieves an evolution assistant by (id, orgID) with its
// references eagerly loaded.
func (s *EvolutionAssistantStore) Get(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionAssistant, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	assistant, exists := s.db.evolutionAssistants[id]
	if !exists || assistant.OrganizationID != orgID {
		return nil, store.ErrEvolutionAssistantNotFound
	}

	clone := *assistant
	s.attachRefs(&clone)
	return &clone, nil
}

// List returns a page of the organization's evolution assistants,
// newest first, optionally narrowed to one environment.
func (s *EvolutionAssistantStore) List(ctx context.Context, orgID uuid.UUID, env models.Environment, page pagination.Params) ([]*models.EvolutionAssistant, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var result []*models.EvolutionAssistant
	for _, assistant := range s.db.evolutionAssistants {
		if assistant.OrganizationID != orgID {
			continue
		}
		if env != "" && assistant.Env != env {
			continue
		}
		clone := *assistant
		s.attachRefs(&clone)
		result = append(result, &clone)
	}

	// Newest first, unlike the other entities.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() > result[j].ID.String()
	})

	return paginate(result, page), len(result), nil
}

// Update revalidates any reference present in the patch before
// mutating the record; a failed check leaves it unchanged.
func (s *EvolutionAssistantStore) Update(ctx context.Context, orgID, id uuid.UUID, patch *models.EvolutionAssistantPatch) (*models.EvolutionAssistant, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	assistant, exists := s.db.evolutionAssistants[id]
	if !exists || assistant.OrganizationID != orgID {
		return nil, store.ErrEvolutionAssistantNotFound
	}

	if err := s.validateRefs(orgID, patch.AssistantVersionID, patch.EvolutionInstanceID); err != nil {
		return nil, err
	}

	clone := *assistant
	if patch.Env != nil {
		clone.Env = *patch.Env
	}
	if patch.AssistantVersionID != nil {
		clone.AssistantVersionID = *patch.AssistantVersionID
	}
	if patch.EvolutionInstanceID != nil {
		clone.EvolutionInstanceID = *patch.EvolutionInstanceID
	}
	clone.UpdatedAt = time.Now()
	s.db.evolutionAssistants[id] = &clone

	result := clone
	return &result, nil
}

// Delete removes an evolution assistant under the compound predicate
// and returns its last state.
func (s *EvolutionAssistantStore) Delete(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionAssistant, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	assistant, exists := s.db.evolutionAssistants[id]
	if !exists || assistant.OrganizationID != orgID {
		return nil, store.ErrEvolutionAssistantNotFound
	}

	delete(s.db.evolutionAssistants, id)

	clone := *assistant
	return &clone, nil
}
