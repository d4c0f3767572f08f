package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
	"github.com/evoassist/backend/internal/store"
)

func TestOrganizationStore_Create(t *testing.T) {
	t.Run("create and get round-trip", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")

		retrieved, err := st.Get(ctx, org.ID)
		require.NoError(t, err)
		require.Equal(t, org.Name, retrieved.Name)
		require.Equal(t, "acme-corp", retrieved.Slug)
	})

	t.Run("duplicate slug returns conflict", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		seedOrganization(t, db, "Acme Corp")

		dup := &models.Organization{
			ID:   uuid.Must(uuid.NewV7()),
			Name: "Acme  Corp!!",
			Slug: "acme-corp",
		}
		err := st.Create(ctx, dup)
		require.ErrorIs(t, err, store.ErrSlugAlreadyExists)

		// The conflicting record was not persisted.
		_, err = st.Get(ctx, dup.ID)
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})
}

func TestOrganizationStore_Get(t *testing.T) {
	t.Run("unknown id returns not found", func(t *testing.T) {
		st := NewOrganizationStore(NewDB())

		_, err := st.Get(context.Background(), uuid.Must(uuid.NewV7()))
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})
}

func TestOrganizationStore_List(t *testing.T) {
	t.Run("name filter is case-insensitive substring", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		seedOrganization(t, db, "Acme Corp")
		seedOrganization(t, db, "Globex")
		seedOrganization(t, db, "Acme Labs")

		orgs, total, err := st.List(ctx, "acme", pagination.Normalize(1, 20))
		require.NoError(t, err)
		require.Equal(t, 2, total)
		require.Len(t, orgs, 2)
	})

	t.Run("pagination over 45 rows", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		base := time.Now()
		for i := 0; i < 45; i++ {
			org := &models.Organization{
				ID:        uuid.Must(uuid.NewV7()),
				Name:      fmt.Sprintf("Org %02d", i),
				Slug:      fmt.Sprintf("org-%02d", i),
				CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
				UpdatedAt: base,
			}
			require.NoError(t, st.Create(ctx, org))
		}

		page := pagination.Normalize(3, 20)
		orgs, total, err := st.List(ctx, "", page)
		require.NoError(t, err)
		require.Equal(t, 45, total)
		require.Len(t, orgs, 5)
		require.Equal(t, 3, pagination.NewMeta(total, page).TotalPages)

		// Oldest-first ordering: page 3 starts at row 40.
		require.Equal(t, "org-40", orgs[0].Slug)
	})
}

func TestOrganizationStore_Update(t *testing.T) {
	t.Run("partial update leaves other fields untouched", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")

		name := "Acme Corporation"
		updated, err := st.Update(ctx, org.ID, &models.OrganizationPatch{Name: &name})
		require.NoError(t, err)
		require.Equal(t, "Acme Corporation", updated.Name)
		require.Equal(t, org.Slug, updated.Slug)
	})

	t.Run("empty patch only refreshes updatedAt", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")

		updated, err := st.Update(ctx, org.ID, &models.OrganizationPatch{})
		require.NoError(t, err)
		require.Equal(t, org.Name, updated.Name)
		require.Equal(t, org.Slug, updated.Slug)
		require.True(t, updated.UpdatedAt.After(org.UpdatedAt) || updated.UpdatedAt.Equal(org.UpdatedAt))
	})

	t.Run("slug taken by another organization conflicts", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		seedOrganization(t, db, "Acme Corp")
		other := seedOrganization(t, db, "Globex")

		taken := "acme-corp"
		_, err := st.Update(ctx, other.ID, &models.OrganizationPatch{Slug: &taken})
		require.ErrorIs(t, err, store.ErrSlugAlreadyExists)
	})

	t.Run("keeping own slug is not a conflict", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")

		own := org.Slug
		updated, err := st.Update(ctx, org.ID, &models.OrganizationPatch{Slug: &own})
		require.NoError(t, err)
		require.Equal(t, own, updated.Slug)
	})
}

func TestOrganizationStore_Delete(t *testing.T) {
	t.Run("delete returns last state", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")

		deleted, err := st.Delete(ctx, org.ID)
		require.NoError(t, err)
		require.Equal(t, org.Name, deleted.Name)

		_, err = st.Get(ctx, org.ID)
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})

	t.Run("delete cascades to all dependent entities", func(t *testing.T) {
		db := NewDB()
		st := NewOrganizationStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		assistant := seedEvolutionAssistant(t, db, org.ID)
		file := seedStorageFile(t, db, org.ID)

		// Entities under another organization must survive.
		other := seedOrganization(t, db, "Globex")
		otherVersion := seedAssistantVersion(t, db, other.ID)

		_, err := st.Delete(ctx, org.ID)
		require.NoError(t, err)

		_, err = NewAssistantVersionStore(db).Get(ctx, org.ID, assistant.AssistantVersionID)
		require.ErrorIs(t, err, store.ErrAssistantVersionNotFound)
		_, err = NewEvolutionInstanceStore(db).Get(ctx, org.ID, assistant.EvolutionInstanceID)
		require.ErrorIs(t, err, store.ErrEvolutionInstanceNotFound)
		_, err = NewStorageFileStore(db).Get(ctx, org.ID, file.ID)
		require.ErrorIs(t, err, store.ErrStorageFileNotFound)
		_, err = NewEvolutionAssistantStore(db).Get(ctx, org.ID, assistant.ID)
		require.ErrorIs(t, err, store.ErrEvolutionAssistantNotFound)

		survivor, err := NewAssistantVersionStore(db).Get(ctx, other.ID, otherVersion.ID)
		require.NoError(t, err)
		require.Equal(t, otherVersion.ID, survivor.ID)
	})

	t.Run("delete absent organization returns not found", func(t *testing.T) {
		st := NewOrganizationStore(NewDB())

		_, err := st.Delete(context.Background(), uuid.Must(uuid.NewV7()))
		require.ErrorIs(t, err, store.ErrOrganizationNotFound)
	})
}
