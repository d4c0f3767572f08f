package models

import (
	"time"

	"github.com/google/uuid"
)

// StorageFile is a file reference owned by an organization. The file
// content itself lives at URL; only metadata is stored here.
type StorageFile struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Filename       string    `json:"filename"`
	Description    *string   `json:"description"` // nullable
	URL            string    `json:"url"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// StorageFilePatch describes a partial update. Description is nullable,
// so it carries a tri-state: absent, explicit null (clear), or a value.
type StorageFilePatch struct {
	Filename    *string          `json:"filename"`
	Description Optional[string] `json:"description"`
	URL         *string          `json:"url"`
}
