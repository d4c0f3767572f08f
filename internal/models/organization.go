package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant in the system. Every other entity
// belongs to exactly one organization and is removed with it.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"` // globally unique, URL-safe
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OrganizationPatch describes a partial update to an organization.
// Nil fields are left unchanged.
type OrganizationPatch struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}
