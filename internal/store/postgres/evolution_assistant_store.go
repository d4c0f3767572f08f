package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
	"github.com/evoassist/backend/internal/store"
)

// EvolutionAssistantStore implements store.EvolutionAssistantStore
// using PostgreSQL. Writes validate that the referenced assistant
// version and evolution instance belong to the same organization before
// committing, inside a transaction so a rejected reference leaves
// nothing behind.
type EvolutionAssistantStore struct {
	pool *pgxpool.Pool
}

// NewEvolutionAssistantStore creates a new PostgreSQL-backed evolution
// assistant store.
func NewEvolutionAssistantStore(pool *pgxpool.Pool) *EvolutionAssistantStore {
	return &EvolutionAssistantStore{pool: pool}
}

const evolutionAssistantJoinedColumns = `
	ea.id, ea.organization_id, ea.env, ea.assistant_version_id, ea.evolution_instance_id, ea.created_at, ea.updated_at,
	av.id, av.organization_id, av.model, av.instructions, av.functions, av.temperature, av.version, av.published, av.created_at, av.updated_at,
	ei.id, ei.organization_id, ei.instance, ei.url, ei.hash, ei.created_at, ei.updated_at`

const evolutionAssistantJoins = `
	FROM evolution_assistants ea
	JOIN assistant_versions av ON av.id = ea.assistant_version_id
	JOIN evolution_instances ei ON ei.id = ea.evolution_instance_id`

func scanEvolutionAssistant(row pgx.Row) (*models.EvolutionAssistant, error) {
	var ea models.EvolutionAssistant
	var av models.AssistantVersion
	var ei models.EvolutionInstance
	var functions []byte

	err := row.Scan(
		&ea.ID,
		&ea.OrganizationID,
		&ea.Env,
		&ea.AssistantVersionID,
		&ea.EvolutionInstanceID,
		&ea.CreatedAt,
		&ea.UpdatedAt,
		&av.ID,
		&av.OrganizationID,
		&av.Model,
		&av.Instructions,
		&functions,
		&av.Temperature,
		&av.Version,
		&av.Published,
		&av.CreatedAt,
		&av.UpdatedAt,
		&ei.ID,
		&ei.OrganizationID,
		&ei.Instance,
		&ei.URL,
		&ei.Hash,
		&ei.CreatedAt,
		&ei.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	av.Functions = functions
	ea.AssistantVersion = &av
	ea.EvolutionInstance = &ei
	return &ea, nil
}

// validateRefs checks that the referenced records exist inside the
// organization. Checks run within the caller's transaction so the
// verdict and the write commit together.
func validateRefs(ctx context.Context, tx pgx.Tx, orgID uuid.UUID, versionID, instanceID *uuid.UUID) error {
	if versionID != nil {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM assistant_versions WHERE id = $1 AND organization_id = $2)`,
			*versionID, orgID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check assistant version reference: %w", err)
		}
		if !exists {
			return store.ErrAssistantVersionRefInvalid
		}
	}

	if instanceID != nil {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM evolution_instances WHERE id = $1 AND organization_id = $2)`,
			*instanceID, orgID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check evolution instance reference: %w", err)
		}
		if !exists {
			return store.ErrEvolutionInstanceRefInvalid
		}
	}

	return nil
}

// Create validates both references against the organization and inserts
// the link. The caller's record gets its eager reference fields filled
// in from the same transaction.
func (s *EvolutionAssistantStore) Create(ctx context.Context, assistant *models.EvolutionAssistant) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = validateRefs(ctx, tx, assistant.OrganizationID, &assistant.AssistantVersionID, &assistant.EvolutionInstanceID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO evolution_assistants (
			id, organization_id, env, assistant_version_id, evolution_instance_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err = tx.Exec(ctx, query,
		assistant.ID,
		assistant.OrganizationID,
		assistant.Env,
		assistant.AssistantVersionID,
		assistant.EvolutionInstanceID,
		assistant.CreatedAt,
		assistant.UpdatedAt,
	)

	if err != nil {
		if refErr := mapReferenceError(err); refErr != nil {
			return refErr
		}
		return fmt.Errorf("failed to create evolution assistant: %w", err)
	}

	getQuery := `SELECT ` + evolutionAssistantJoinedColumns + evolutionAssistantJoins + `
		WHERE ea.id = $1 AND ea.organization_id = $2`

	created, err := scanEvolutionAssistant(tx.QueryRow(ctx, getQuery, assistant.ID, assistant.OrganizationID))
	if err != nil {
		return fmt.Errorf("failed to reload evolution assistant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	*assistant = *created

	log.Debug().
		Str("evolution_assistant_id", assistant.ID.String()).
		Str("org_id", assistant.OrganizationID.String()).
		Str("env", string(assistant.Env)).
		Msg("Created evolution assistant")

	return nil
}

// Get retrieves an evolution assistant by (id, orgID) with its
// assistant version and evolution instance loaded.
func (s *EvolutionAssistantStore) Get(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionAssistant, error) {
	query := `SELECT ` + evolutionAssistantJoinedColumns + evolutionAssistantJoins + `
		WHERE ea.id = $1 AND ea.organization_id = $2`

	assistant, err := scanEvolutionAssistant(s.pool.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEvolutionAssistantNotFound
		}
		return nil, fmt.Errorf("failed to get evolution assistant: %w", err)
	}

	return assistant, nil
}

// List returns a page of the organization's evolution assistants,
// newest first, optionally filtered by environment. Each record carries
// its referenced assistant version and evolution instance.
func (s *EvolutionAssistantStore) List(ctx context.Context, orgID uuid.UUID, env models.Environment, page pagination.Params) ([]*models.EvolutionAssistant, int, error) {
	where := `WHERE ea.organization_id = $1`
	args := []any{orgID}
	if env != "" {
		args = append(args, env)
		where += fmt.Sprintf(" AND ea.env = $%d", len(args))
	}

	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM evolution_assistants ea `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count evolution assistants: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(`SELECT %s %s
		%s
		ORDER BY ea.created_at DESC, ea.id DESC
		LIMIT $%d OFFSET $%d`,
		evolutionAssistantJoinedColumns, evolutionAssistantJoins, where, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list evolution assistants: %w", err)
	}
	defer rows.Close()

	var assistants []*models.EvolutionAssistant
	for rows.Next() {
		assistant, err := scanEvolutionAssistant(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan evolution assistant: %w", err)
		}
		assistants = append(assistants, assistant)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating evolution assistants: %w", err)
	}

	return assistants, total, nil
}

// Update applies a partial update, re-validating any reference the
// patch changes. Omitted references are trusted as already valid.
func (s *EvolutionAssistantStore) Update(ctx context.Context, orgID, id uuid.UUID, patch *models.EvolutionAssistantPatch) (*models.EvolutionAssistant, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = validateRefs(ctx, tx, orgID, patch.AssistantVersionID, patch.EvolutionInstanceID)
	if err != nil {
		return nil, err
	}

	set := []string{"updated_at = now()"}
	args := []any{id, orgID}

	if patch.Env != nil {
		args = append(args, *patch.Env)
		set = append(set, fmt.Sprintf("env = $%d", len(args)))
	}
	if patch.AssistantVersionID != nil {
		args = append(args, *patch.AssistantVersionID)
		set = append(set, fmt.Sprintf("assistant_version_id = $%d", len(args)))
	}
	if patch.EvolutionInstanceID != nil {
		args = append(args, *patch.EvolutionInstanceID)
		set = append(set, fmt.Sprintf("evolution_instance_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE evolution_assistants SET %s
		WHERE id = $1 AND organization_id = $2
		RETURNING id`,
		strings.Join(set, ", "))

	var updatedID uuid.UUID
	if err := tx.QueryRow(ctx, query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEvolutionAssistantNotFound
		}
		if refErr := mapReferenceError(err); refErr != nil {
			return nil, refErr
		}
		return nil, fmt.Errorf("failed to update evolution assistant: %w", err)
	}

	getQuery := `SELECT ` + evolutionAssistantJoinedColumns + evolutionAssistantJoins + `
		WHERE ea.id = $1 AND ea.organization_id = $2`

	assistant, err := scanEvolutionAssistant(tx.QueryRow(ctx, getQuery, id, orgID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload evolution assistant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return assistant, nil
}

// Delete removes an evolution assistant under the compound predicate
// and returns its last state, references included.
func (s *EvolutionAssistantStore) Delete(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionAssistant, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	getQuery := `SELECT ` + evolutionAssistantJoinedColumns + evolutionAssistantJoins + `
		WHERE ea.id = $1 AND ea.organization_id = $2`

	assistant, err := scanEvolutionAssistant(tx.QueryRow(ctx, getQuery, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEvolutionAssistantNotFound
		}
		return nil, fmt.Errorf("failed to get evolution assistant: %w", err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM evolution_assistants WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete evolution assistant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return assistant, nil
}
