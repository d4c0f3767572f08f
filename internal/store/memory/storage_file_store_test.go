package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/store"
)

func TestStorageFileDescription(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	files := NewStorageFileStore(db)

	org := seedOrganization(t, db, "Files Inc")
	file := seedStorageFile(t, db, org.ID)

	t.Run("omitted description is untouched", func(t *testing.T) {
		filename := "renamed.pdf"
		updated, err := files.Update(ctx, org.ID, file.ID, &models.StorageFilePatch{Filename: &filename})
		require.NoError(t, err)
		require.Equal(t, "renamed.pdf", updated.Filename)
		require.Equal(t, file.Description, updated.Description)
	})

	t.Run("explicit null clears description", func(t *testing.T) {
		var patch models.StorageFilePatch
		require.NoError(t, json.Unmarshal([]byte(`{"description":null}`), &patch))

		updated, err := files.Update(ctx, org.ID, file.ID, &patch)
		require.NoError(t, err)
		require.Nil(t, updated.Description)
	})

	t.Run("value sets description", func(t *testing.T) {
		var patch models.StorageFilePatch
		require.NoError(t, json.Unmarshal([]byte(`{"description":"fresh notes"}`), &patch))

		updated, err := files.Update(ctx, org.ID, file.ID, &patch)
		require.NoError(t, err)
		require.NotNil(t, updated.Description)
		require.Equal(t, "fresh notes", *updated.Description)
	})
}

func TestStorageFileTenantScoping(t *testing.T) {
	ctx := context.Background()
	db := NewDB()
	files := NewStorageFileStore(db)

	orgA := seedOrganization(t, db, "Org A")
	orgB := seedOrganization(t, db, "Org B")
	file := seedStorageFile(t, db, orgA.ID)

	_, err := files.Get(ctx, orgB.ID, file.ID)
	require.ErrorIs(t, err, store.ErrStorageFileNotFound)

	_, err = files.Delete(ctx, orgB.ID, file.ID)
	require.ErrorIs(t, err, store.ErrStorageFileNotFound)

	got, err := files.Get(ctx, orgA.ID, file.ID)
	require.NoError(t, err)
	require.Equal(t, file.ID, got.ID)
}
