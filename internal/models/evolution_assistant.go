package models

import (
	"time"

	"github.com/google/uuid"
)

// Environment tags an evolution assistant deployment.
type Environment string

const (
	EnvironmentProd    Environment = "prod"
	EnvironmentStaging Environment = "staging"
)

// Valid reports whether e is one of the known environments.
func (e Environment) Valid() bool {
	return e == EnvironmentProd || e == EnvironmentStaging
}

// EvolutionAssistant binds an assistant version to an evolution
// instance within an environment. Both references must belong to the
// same organization as the record itself; the store enforces this on
// create and on every update that changes a reference.
type EvolutionAssistant struct {
	ID                  uuid.UUID   `json:"id"`
	OrganizationID      uuid.UUID   `json:"organizationId"`
	Env                 Environment `json:"env"`
	AssistantVersionID  uuid.UUID   `json:"assistantVersionId"`
	EvolutionInstanceID uuid.UUID   `json:"evolutionInstanceId"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`

	// Eagerly loaded references, populated on get and list.
	AssistantVersion  *AssistantVersion  `json:"assistantVersion,omitempty"`
	EvolutionInstance *EvolutionInstance `json:"evolutionInstance,omitempty"`
}

// EvolutionAssistantPatch describes a partial update. Reference fields
// present in the patch are revalidated against the owning organization
// before any write happens.
type EvolutionAssistantPatch struct {
	Env                 *Environment `json:"env"`
	AssistantVersionID  *uuid.UUID   `json:"assistantVersionId"`
	EvolutionInstanceID *uuid.UUID   `json:"evolutionInstanceId"`
}
