package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Defaults applied when an assistant version is created without the
// corresponding fields.
const (
	DefaultTemperature = float32(1.0)
	DefaultVersion     = int32(1)
)

// AssistantVersion is a versioned assistant configuration owned by an
// organization.
type AssistantVersion struct {
	ID             uuid.UUID       `json:"id"`
	OrganizationID uuid.UUID       `json:"organizationId"`
	Model          string          `json:"model"`
	Instructions   string          `json:"instructions"`
	Functions      json.RawMessage `json:"functions"` // optional structured payload, nullable
	Temperature    float32         `json:"temperature"`
	Version        int32           `json:"version"`
	Published      bool            `json:"published"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// AssistantVersionPatch describes a partial update. Nil pointer fields
// are left unchanged; Functions carries a tri-state so an explicit null
// clears the stored payload.
type AssistantVersionPatch struct {
	Model        *string                   `json:"model"`
	Instructions *string                   `json:"instructions"`
	Functions    Optional[json.RawMessage] `json:"functions"`
	Temperature  *float32                  `json:"temperature"`
	Version      *int32                    `json:"version"`
	Published    *bool                     `json:"published"`
}
