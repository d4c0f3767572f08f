// Package memory implements the store interfaces with in-memory maps.
// It mirrors the semantics of the postgres package, including cascade
// delete and cross-reference validation, and is used by unit tests and
// local development. Data is lost on restart.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

// DB holds all entities behind one lock so multi-entity operations
// (cascade delete, reference validation) observe a consistent state.
// The per-entity stores share a single DB.
type DB struct {
	mu sync.RWMutex

	organizations       map[uuid.UUID]*models.Organization
	assistantVersions   map[uuid.UUID]*models.AssistantVersion
	evolutionInstances  map[uuid.UUID]*models.EvolutionInstance
	storageFiles        map[uuid.UUID]*models.StorageFile
	evolutionAssistants map[uuid.UUID]*models.EvolutionAssistant
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{
		organizations:       make(map[uuid.UUID]*models.Organization),
		assistantVersions:   make(map[uuid.UUID]*models.AssistantVersion),
		evolutionInstances:  make(map[uuid.UUID]*models.EvolutionInstance),
		storageFiles:        make(map[uuid.UUID]*models.StorageFile),
		evolutionAssistants: make(map[uuid.UUID]*models.EvolutionAssistant),
	}
}

// paginate slices one page out of a sorted result set.
func paginate[T any](items []T, page pagination.Params) []T {
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
