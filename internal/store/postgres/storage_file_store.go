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

// StorageFileStore implements store.StorageFileStore using PostgreSQL.
type StorageFileStore struct {
	pool *pgxpool.Pool
}

// NewStorageFileStore creates a new PostgreSQL-backed storage file store.
func NewStorageFileStore(pool *pgxpool.Pool) *StorageFileStore {
	return &StorageFileStore{pool: pool}
}

const storageFileColumns = `id, organization_id, filename, description, url, created_at, updated_at`

func scanStorageFile(row pgx.Row) (*models.StorageFile, error) {
	var f models.StorageFile
	err := row.Scan(
		&f.ID,
		&f.OrganizationID,
		&f.Filename,
		&f.Description,
		&f.URL,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Create inserts a new storage file record under its organization.
func (s *StorageFileStore) Create(ctx context.Context, file *models.StorageFile) error {
	query := `
		INSERT INTO storage_files (
			id, organization_id, filename, description, url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
	`

	_, err := s.pool.Exec(ctx, query,
		file.ID,
		file.OrganizationID,
		file.Filename,
		file.Description,
		file.URL,
		file.CreatedAt,
		file.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create storage file: %w", err)
	}

	log.Debug().
		Str("storage_file_id", file.ID.String()).
		Str("org_id", file.OrganizationID.String()).
		Str("filename", file.Filename).
		Msg("Created storage file")

	return nil
}

// Get retrieves a storage file by (id, orgID).
func (s *StorageFileStore) Get(ctx context.Context, orgID, id uuid.UUID) (*models.StorageFile, error) {
	query := `SELECT ` + storageFileColumns + ` FROM storage_files WHERE id = $1 AND organization_id = $2`

	file, err := scanStorageFile(s.pool.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrStorageFileNotFound
		}
		return nil, fmt.Errorf("failed to get storage file: %w", err)
	}

	return file, nil
}

// List returns a page of the organization's storage files ordered by
// creation time.
func (s *StorageFileStore) List(ctx context.Context, orgID uuid.UUID, page pagination.Params) ([]*models.StorageFile, int, error) {
	var total int
	if err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM storage_files WHERE organization_id = $1`, orgID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count storage files: %w", err)
	}

	query := `
		SELECT ` + storageFileColumns + `
		FROM storage_files
		WHERE organization_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, orgID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list storage files: %w", err)
	}
	defer rows.Close()

	var files []*models.StorageFile
	for rows.Next() {
		file, err := scanStorageFile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan storage file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating storage files: %w", err)
	}

	return files, total, nil
}

// Update applies a partial update under the compound (id, orgID)
// predicate. Description distinguishes "set to null" from "leave
// unchanged".
func (s *StorageFileStore) Update(ctx context.Context, orgID, id uuid.UUID, patch *models.StorageFilePatch) (*models.StorageFile, error) {
	set := []string{"updated_at = now()"}
	args := []any{id, orgID}

	if patch.Filename != nil {
		args = append(args, *patch.Filename)
		set = append(set, fmt.Sprintf("filename = $%d", len(args)))
	}
	if patch.Description.Set {
		args = append(args, patch.Description.Value)
		set = append(set, fmt.Sprintf("description = $%d", len(args)))
	}
	if patch.URL != nil {
		args = append(args, *patch.URL)
		set = append(set, fmt.Sprintf("url = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE storage_files SET %s
		WHERE id = $1 AND organization_id = $2
		RETURNING `+storageFileColumns,
		strings.Join(set, ", "))

	file, err := scanStorageFile(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrStorageFileNotFound
		}
		return nil, fmt.Errorf("failed to update storage file: %w", err)
	}

	return file, nil
}

// Delete removes a storage file under the compound predicate and
// returns its last state.
func (s *StorageFileStore) Delete(ctx context.Context, orgID, id uuid.UUID) (*models.StorageFile, error) {
	query := `DELETE FROM storage_files WHERE id = $1 AND organization_id = $2 RETURNING ` + storageFileColumns

	file, err := scanStorageFile(s.pool.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrStorageFileNotFound
		}
		return nil, fmt.Errorf("failed to delete storage file: %w", err)
	}

	return file, nil
}
