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

// AssistantVersionStore implements store.AssistantVersionStore using
// PostgreSQL.
type AssistantVersionStore struct {
	pool *pgxpool.Pool
}

// NewAssistantVersionStore creates a new PostgreSQL-backed assistant
// version store.
func NewAssistantVersionStore(pool *pgxpool.Pool) *AssistantVersionStore {
	return &AssistantVersionStore{pool: pool}
}

const assistantVersionColumns = `id, organization_id, model, instructions, functions, temperature, version, published, created_at, updated_at`

func scanAssistantVersion(row pgx.Row) (*models.AssistantVersion, error) {
	var v models.AssistantVersion
	var functions []byte
	err := row.Scan(
		&v.ID,
		&v.OrganizationID,
		&v.Model,
		&v.Instructions,
		&functions,
		&v.Temperature,
		&v.Version,
		&v.Published,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.Functions = functions
	return &v, nil
}

// Create inserts a new assistant version under its organization.
func (s *AssistantVersionStore) Create(ctx context.Context, version *models.AssistantVersion) error {
	query := `
		INSERT INTO assistant_versions (
			id, organization_id, model, instructions, functions,
			temperature, version, published, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	// NULL rather than the JSON literal "null" for an absent payload.
	var functions any
	if version.Functions != nil {
		functions = []byte(version.Functions)
	}

	_, err := s.pool.Exec(ctx, query,
		version.ID,
		version.OrganizationID,
		version.Model,
		version.Instructions,
		functions,
		version.Temperature,
		version.Version,
		version.Published,
		version.CreatedAt,
		version.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create assistant version: %w", err)
	}

	log.Debug().
		Str("assistant_version_id", version.ID.String()).
		Str("org_id", version.OrganizationID.String()).
		Msg("Created assistant version")

	return nil
}

// Get retrieves an assistant version by (id, orgID). A version under a
// different organization scans as no rows, so cross-tenant probes are
// indistinguishable from missing records.
func (s *AssistantVersionStore) Get(ctx context.Context, orgID, id uuid.UUID) (*models.AssistantVersion, error) {
	query := `SELECT ` + assistantVersionColumns + ` FROM assistant_versions WHERE id = $1 AND organization_id = $2`

	version, err := scanAssistantVersion(s.pool.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrAssistantVersionNotFound
		}
		return nil, fmt.Errorf("failed to get assistant version: %w", err)
	}

	return version, nil
}

// List returns a page of the organization's assistant versions ordered
// by creation time.
func (s *AssistantVersionStore) List(ctx context.Context, orgID uuid.UUID, page pagination.Params) ([]*models.AssistantVersion, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM assistant_versions WHERE organization_id = $1`, orgID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assistant versions: %w", err)
	}

	query := `
		SELECT ` + assistantVersionColumns + `
		FROM assistant_versions
		WHERE organization_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, orgID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assistant versions: %w", err)
	}
	defer rows.Close()

	var versions []*models.AssistantVersion
	for rows.Next() {
		version, err := scanAssistantVersion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan assistant version: %w", err)
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating assistant versions: %w", err)
	}

	return versions, total, nil
}

// Update applies a partial update under the compound (id, orgID)
// predicate.
func (s *AssistantVersionStore) Update(ctx context.Context, orgID, id uuid.UUID, patch *models.AssistantVersionPatch) (*models.AssistantVersion, error) {
	set := []string{"updated_at = now()"}
	args := []any{id, orgID}

	if patch.Model != nil {
		args = append(args, *patch.Model)
		set = append(set, fmt.Sprintf("model = $%d", len(args)))
	}
	if patch.Instructions != nil {
		args = append(args, *patch.Instructions)
		set = append(set, fmt.Sprintf("instructions = $%d", len(args)))
	}
	if patch.Functions.Set {
		var functions any
		if patch.Functions.Value != nil {
			functions = []byte(*patch.Functions.Value)
		}
		args = append(args, functions)
		set = append(set, fmt.Sprintf("functions = $%d", len(args)))
	}
	if patch.Temperature != nil {
		args = append(args, *patch.Temperature)
		set = append(set, fmt.Sprintf("temperature = $%d", len(args)))
	}
	if patch.Version != nil {
		args = append(args, *patch.Version)
		set = append(set, fmt.Sprintf("version = $%d", len(args)))
	}
	if patch.Published != nil {
		args = append(args, *patch.Published)
		set = append(set, fmt.Sprintf("published = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE assistant_versions SET %s
		WHERE id = $1 AND organization_id = $2
		RETURNING `+assistantVersionColumns,
		strings.Join(set, ", "))

	version, err := scanAssistantVersion(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrAssistantVersionNotFound
		}
		return nil, fmt.Errorf("failed to update assistant version: %w", err)
	}

	return version, nil
}

// Delete removes an assistant version under the compound predicate and
// returns its last state.
func (s *AssistantVersionStore) Delete(ctx context.Context, orgID, id uuid.UUID) (*models.AssistantVersion, error) {
	query := `DELETE FROM assistant_versions WHERE id = $1 AND organization_id = $2 RETURNING ` + assistantVersionColumns

	version, err := scanAssistantVersion(s.pool.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrAssistantVersionNotFound
		}
		return nil, fmt.Errorf("failed to delete assistant version: %w", err)
	}

	return version, nil
}
