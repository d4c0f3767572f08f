package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/evoassist/backend/internal/store"
)

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation on the named constraint. An empty name matches any
// constraint.
func isForeignKeyViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.ForeignKeyViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// mapReferenceError translates a foreign-key violation on the join
// table into the referential sentinel naming the broken reference, or
// nil when err is something else. Reference checks run before the
// write, so this only fires when a referenced row is deleted
// concurrently.
func mapReferenceError(err error) error {
	switch {
	case isForeignKeyViolation(err, "evolution_assistants_assistant_version_id_fkey"):
		return store.ErrAssistantVersionRefInvalid
	case isForeignKeyViolation(err, "evolution_assistants_evolution_instance_id_fkey"):
		return store.ErrEvolutionInstanceRefInvalid
	default:
		return nil
	}
}
