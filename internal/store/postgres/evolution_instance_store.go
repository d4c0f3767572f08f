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

// EvolutionInstanceStore implements store.EvolutionInstanceStore using
// PostgreSQL.
type EvolutionInstanceStore struct {
	pool *pgxpool.Pool
}

// NewEvolutionInstanceStore creates a new PostgreSQL-backed evolution
// instance store.
func NewEvolutionInstanceStore(pool *pgxpool.Pool) *EvolutionInstanceStore {
	return &EvolutionInstanceStore{pool: pool}
}

const evolutionInstanceColumns = `id, organization_id, instance, url, hash, created_at, updated_at`

func scanEvolutionInstance(row pgx.Row) (*models.EvolutionInstance, error) {
	var inst models.EvolutionInstance
	err := row.Scan(
		&inst.ID,
		&inst.OrganizationID,
		&inst.Instance,
		&inst.URL,
		&inst.Hash,
		&inst.CreatedAt,
		&inst.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

// Create inserts a new evolution instance under its organization.
func (s *EvolutionInstanceStore) Create(ctx context.Context, instance *models.EvolutionInstance) error {
	query := `
		INSERT INTO evolution_instances (
			id, organization_id, instance, url, hash, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		instance.ID,
		instance.OrganizationID,
		instance.Instance,
		instance.URL,
		instance.Hash,
		instance.CreatedAt,
		instance.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create evolution instance: %w", err)
	}

	log.Debug().
		Str("evolution_instance_id", instance.ID.String()).
		Str("org_id", instance.OrganizationID.String()).
		Str("instance", instance.Instance).
		Msg("Created evolution instance")

	return nil
}

// Get retrieves an evolution instance by (id, orgID).
func (s *EvolutionInstanceStore) Get(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionInstance, error) {
	query := `SELECT ` + evolutionInstanceColumns + ` FROM evolution_instances WHERE id = $1 AND organization_id = $2`

	instance, err := scanEvolutionInstance(s.pool.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEvolutionInstanceNotFound
		}
		return nil, fmt.Errorf("failed to get evolution instance: %w", err)
	}

	return instance, nil
}

// List returns a page of the organization's evolution instances ordered
// by creation time.
func (s *EvolutionInstanceStore) List(ctx context.Context, orgID uuid.UUID, page pagination.Params) ([]*models.EvolutionInstance, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM evolution_instances WHERE organization_id = $1`, orgID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count evolution instances: %w", err)
	}

	query := `
		SELECT ` + evolutionInstanceColumns + `
		FROM evolution_instances
		WHERE organization_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, orgID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list evolution instances: %w", err)
	}
	defer rows.Close()

	var instances []*models.EvolutionInstance
	for rows.Next() {
		instance, err := scanEvolutionInstance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan evolution instance: %w", err)
		}
		instances = append(instances, instance)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating evolution instances: %w", err)
	}

	return instances, total, nil
}

// Update applies a partial update under the compound (id, orgID)
// predicate.
func (s *EvolutionInstanceStore) Update(ctx context.Context, orgID, id uuid.UUID, patch *models.EvolutionInstancePatch) (*models.EvolutionInstance, error) {
	set := []string{"updated_at = now()"}
	args := []any{id, orgID}

	if patch.Instance != nil {
		args = append(args, *patch.Instance)
		set = append(set, fmt.Sprintf("instance = $%d", len(args)))
	}
	if patch.URL != nil {
		args = append(args, *patch.URL)
		set = append(set, fmt.Sprintf("url = $%d", len(args)))
	}
	if patch.Hash != nil {
		args = append(args, *patch.Hash)
		set = append(set, fmt.Sprintf("hash = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE evolution_instances SET %s
		WHERE id = $1 AND organization_id = $2
		RETURNING `+evolutionInstanceColumns,
		strings.Join(set, ", "))

	instance, err := scanEvolutionInstance(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEvolutionInstanceNotFound
		}
		return nil, fmt.Errorf("failed to update evolution instance: %w", err)
	}

	return instance, nil
}

// Delete removes an evolution instance under the compound predicate and
// returns its last state. Dependent evolution assistants are removed by
// the schema's cascade rule.
func (s *EvolutionInstanceStore) Delete(ctx context.Context, orgID, id uuid.UUID) (*models.EvolutionInstance, error) {
	query := `DELETE FROM evolution_instances WHERE id = $1 AND organization_id = $2 RETURNING ` + evolutionInstanceColumns

	instance, err := scanEvolutionInstance(s.pool.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEvolutionInstanceNotFound
		}
		return nil, fmt.Errorf("failed to delete evolution instance: %w", err)
	}

	return instance, nil
}
