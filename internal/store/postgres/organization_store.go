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

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	pool *pgxpool.Pool
}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
// It shares the connection pool with the other stores.
func NewOrganizationStore(pool *pgxpool.Pool) *OrganizationStore {
	return &OrganizationStore{pool: pool}
}

const organizationColumns = `id, name, slug, created_at, updated_at`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	err := row.Scan(&org.ID, &org.Name, &org.Slug, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &org, nil
}

// Create inserts a new organization. Slug uniqueness is enforced by the
// organizations_slug_key constraint, which makes concurrent creates with
// the same slug race-safe.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (
			id, name, slug, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5
		)
	`

	_, err := s.pool.Exec(ctx, query,
		org.ID,
		org.Name,
		org.Slug,
		org.CreatedAt,
		org.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrSlugAlreadyExists
		}
		return fmt.Errorf("failed to create organization: %w", err)
	}

	log.Debug().
		Str("org_id", org.ID.String()).
		Str("slug", org.Slug).
		Msg("Created organization")

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1`

	org, err := scanOrganization(s.pool.QueryRow(ctx, query, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

// List returns a page of organizations ordered by creation time. The
// total is computed over the same filter predicate as the page fetch.
func (s *OrganizationStore) List(ctx context.Context, search string, page pagination.Params) ([]*models.Organization, int, error) {
	where := ""
	args := []any{}
	if search != "" {
		args = append(args, search)
		where = `WHERE name ILIKE '%' || $1 || '%'`
	}

	var total int
	countQuery := `SELECT count(*) FROM organizations ` + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	args = append(args, page.Limit, page.Offset())
	query := fmt.Sprintf(`
		SELECT `+organizationColumns+`
		FROM organizations
		%s
		ORDER BY created_at, id
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating organizations: %w", err)
	}

	return orgs, total, nil
}

// Update applies a partial update and returns the stored record.
func (s *OrganizationStore) Update(ctx context.Context, orgID uuid.UUID, patch *models.OrganizationPatch) (*models.Organization, error) {
	set := []string{"updated_at = now()"}
	args := []any{orgID}

	if patch.Name != nil {
		args = append(args, *patch.Name)
		set = append(set, fmt.Sprintf("name = $%d", len(args)))
	}
	if patch.Slug != nil {
		args = append(args, *patch.Slug)
		set = append(set, fmt.Sprintf("slug = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE organizations SET %s
		WHERE id = $1
		RETURNING `+organizationColumns,
		strings.Join(set, ", "))

	org, err := scanOrganization(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		if isUniqueViolation(err) {
			return nil, store.ErrSlugAlreadyExists
		}
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}

	log.Debug().
		Str("org_id", orgID.String()).
		Msg("Updated organization")

	return org, nil
}

// Delete removes an organization and returns its last state. Dependent
// rows in every child table go with it via ON DELETE CASCADE.
func (s *OrganizationStore) Delete(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	query := `DELETE FROM organizations WHERE id = $1 RETURNING ` + organizationColumns

	org, err := scanOrganization(s.pool.QueryRow(ctx, query, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to delete organization: %w", err)
	}

	log.Info().
		Str("org_id", orgID.String()).
		Msg("Deleted organization (and cascade-deleted all dependent resources)")

	return org, nil
}
