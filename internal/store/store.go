// Package store defines the storage interfaces for all tenant-scoped
// entities, along with the sentinel errors every implementation must
// return. Implementations live in the memory and postgres subpackages.
//
// Every operation on a child entity takes the owning organization ID as
// an explicit parameter and restricts both reads and writes to rows
// whose organization_id matches. An ID that exists under a different
// organization is reported as not found, never as a permission error.
package store

import "errors"

// Sentinel errors shared across entity stores.
var (
	ErrOrganizationNotFound       = errors.New("organization not found")
	ErrSlugAlreadyExists          = errors.New("slug already exists")
	ErrAssistantVersionNotFound   = errors.New("assistant version not found")
	ErrEvolutionInstanceNotFound  = errors.New("evolution instance not found")
	ErrStorageFileNotFound        = errors.New("storage file not found")
	ErrEvolutionAssistantNotFound = errors.New("evolution assistant not found")

	// Referential errors: a join record points at an entity that does
	// not exist or belongs to a different organization. Kept distinct
	// from the not-found sentinels so callers can name the offending
	// reference.
	ErrAssistantVersionRefInvalid  = errors.New("assistant version not found in this organization")
	ErrEvolutionInstanceRefInvalid = errors.New("evolution instance not found in this organization")
)
