package models

import (
	"time"

	"github.com/google/uuid"
)

// EvolutionInstance is an externally hosted Evolution API instance
// registered under an organization. Hash is the API credential used to
// authenticate against the instance.
type EvolutionInstance struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Instance       string    `json:"instance"`
	URL            string    `json:"url"`
	Hash           string    `json:"hash"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// EvolutionInstancePatch describes a partial update. Nil fields are
// left unchanged.
type EvolutionInstancePatch struct {
	Instance *string `json:"instance"`
	URL      *string `json:"url"`
	Hash     *string `json:"hash"`
}
