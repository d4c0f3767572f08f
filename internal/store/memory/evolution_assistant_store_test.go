package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
	"github.com/evoassist/backend/internal/store"
)

func TestEvolutionAssistantStore_Create(t *testing.T) {
	t.Run("valid references persist", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		assistant := seedEvolutionAssistant(t, db, org.ID)

		// Create filled in the eager references itself.
		require.NotNil(t, assistant.AssistantVersion)
		require.NotNil(t, assistant.EvolutionInstance)
		require.Equal(t, assistant.AssistantVersionID, assistant.AssistantVersion.ID)

		retrieved, err := st.Get(ctx, org.ID, assistant.ID)
		require.NoError(t, err)
		require.Equal(t, assistant.AssistantVersionID, retrieved.AssistantVersionID)
		require.NotNil(t, retrieved.AssistantVersion)
		require.NotNil(t, retrieved.EvolutionInstance)
	})

	t.Run("version from another organization is rejected", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		other := seedOrganization(t, db, "Globex")

		foreignVersion := seedAssistantVersion(t, db, other.ID)
		instance := seedEvolutionInstance(t, db, org.ID)

		assistant := &models.EvolutionAssistant{
			ID:                  uuid.Must(uuid.NewV7()),
			OrganizationID:      org.ID,
			Env:                 models.EnvironmentProd,
			AssistantVersionID:  foreignVersion.ID,
			EvolutionInstanceID: instance.ID,
		}
		err := st.Create(ctx, assistant)
		require.ErrorIs(t, err, store.ErrAssistantVersionRefInvalid)

		// Nothing was persisted.
		_, err = st.Get(ctx, org.ID, assistant.ID)
		require.ErrorIs(t, err, store.ErrEvolutionAssistantNotFound)
	})

	t.Run("instance from another organization is rejected", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		other := seedOrganization(t, db, "Globex")

		version := seedAssistantVersion(t, db, org.ID)
		foreignInstance := seedEvolutionInstance(t, db, other.ID)

		err := st.Create(ctx, &models.EvolutionAssistant{
			ID:                  uuid.Must(uuid.NewV7()),
			OrganizationID:      org.ID,
			Env:                 models.EnvironmentProd,
			AssistantVersionID:  version.ID,
			EvolutionInstanceID: foreignInstance.ID,
		})
		require.ErrorIs(t, err, store.ErrEvolutionInstanceRefInvalid)
	})

	t.Run("unknown reference is rejected", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		instance := seedEvolutionInstance(t, db, org.ID)

		err := st.Create(ctx, &models.EvolutionAssistant{
			ID:                  uuid.Must(uuid.NewV7()),
			OrganizationID:      org.ID,
			Env:                 models.EnvironmentProd,
			AssistantVersionID:  uuid.Must(uuid.NewV7()),
			EvolutionInstanceID: instance.ID,
		})
		require.ErrorIs(t, err, store.ErrAssistantVersionRefInvalid)
	})
}

func TestEvolutionAssistantStore_TenantIsolation(t *testing.T) {
	db := NewDB()
	st := NewEvolutionAssistantStore(db)
	ctx := context.Background()

	org := seedOrganization(t, db, "Acme Corp")
	other := seedOrganization(t, db, "Globex")
	assistant := seedEvolutionAssistant(t, db, org.ID)

	// A cross-tenant get is indistinguishable from a missing record.
	_, err := st.Get(ctx, other.ID, assistant.ID)
	require.ErrorIs(t, err, store.ErrEvolutionAssistantNotFound)

	_, err = st.Delete(ctx, other.ID, assistant.ID)
	require.ErrorIs(t, err, store.ErrEvolutionAssistantNotFound)

	env := models.EnvironmentProd
	_, err = st.Update(ctx, other.ID, assistant.ID, &models.EvolutionAssistantPatch{Env: &env})
	require.ErrorIs(t, err, store.ErrEvolutionAssistantNotFound)

	// The record is still intact under its own organization.
	kept, err := st.Get(ctx, org.ID, assistant.ID)
	require.NoError(t, err)
	require.Equal(t, models.EnvironmentStaging, kept.Env)
}

func TestEvolutionAssistantStore_List(t *testing.T) {
	t.Run("env filter and newest-first ordering", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		version := seedAssistantVersion(t, db, org.ID)
		instance := seedEvolutionInstance(t, db, org.ID)

		base := time.Now()
		envs := []models.Environment{models.EnvironmentProd, models.EnvironmentStaging, models.EnvironmentProd}
		ids := make([]uuid.UUID, len(envs))
		for i, env := range envs {
			assistant := &models.EvolutionAssistant{
				ID:                  uuid.Must(uuid.NewV7()),
				OrganizationID:      org.ID,
				Env:                 env,
				AssistantVersionID:  version.ID,
				EvolutionInstanceID: instance.ID,
				CreatedAt:           base.Add(time.Duration(i) * time.Millisecond),
				UpdatedAt:           base,
			}
			require.NoError(t, st.Create(ctx, assistant))
			ids[i] = assistant.ID
		}

		all, total, err := st.List(ctx, org.ID, "", pagination.Normalize(1, 20))
		require.NoError(t, err)
		require.Equal(t, 3, total)
		// Newest first.
		require.Equal(t, ids[2], all[0].ID)
		require.Equal(t, ids[0], all[2].ID)
		require.NotNil(t, all[0].AssistantVersion)

		prod, total, err := st.List(ctx, org.ID, models.EnvironmentProd, pagination.Normalize(1, 20))
		require.NoError(t, err)
		require.Equal(t, 2, total)
		for _, assistant := range prod {
			require.Equal(t, models.EnvironmentProd, assistant.Env)
		}
	})
}

func TestEvolutionAssistantStore_Update(t *testing.T) {
	t.Run("cross-tenant reference in patch is rejected and record unchanged", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		other := seedOrganization(t, db, "Globex")
		assistant := seedEvolutionAssistant(t, db, org.ID)
		foreignVersion := seedAssistantVersion(t, db, other.ID)

		_, err := st.Update(ctx, org.ID, assistant.ID, &models.EvolutionAssistantPatch{
			AssistantVersionID: &foreignVersion.ID,
		})
		require.ErrorIs(t, err, store.ErrAssistantVersionRefInvalid)

		kept, err := st.Get(ctx, org.ID, assistant.ID)
		require.NoError(t, err)
		require.Equal(t, assistant.AssistantVersionID, kept.AssistantVersionID)
	})

	t.Run("omitted reference fields are not revalidated", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		assistant := seedEvolutionAssistant(t, db, org.ID)

		// Drop the referenced version behind the store's back so its
		// stored reference would no longer validate; an env-only
		// patch must still succeed.
		delete(db.assistantVersions, assistant.AssistantVersionID)

		env := models.EnvironmentProd
		updated, err := st.Update(ctx, org.ID, assistant.ID, &models.EvolutionAssistantPatch{Env: &env})
		require.NoError(t, err)
		require.Equal(t, models.EnvironmentProd, updated.Env)
	})

	t.Run("valid new references are applied", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		assistant := seedEvolutionAssistant(t, db, org.ID)
		newVersion := seedAssistantVersion(t, db, org.ID)
		newInstance := seedEvolutionInstance(t, db, org.ID)

		updated, err := st.Update(ctx, org.ID, assistant.ID, &models.EvolutionAssistantPatch{
			AssistantVersionID:  &newVersion.ID,
			EvolutionInstanceID: &newInstance.ID,
		})
		require.NoError(t, err)
		require.Equal(t, newVersion.ID, updated.AssistantVersionID)
		require.Equal(t, newInstance.ID, updated.EvolutionInstanceID)
	})
}

func TestEvolutionAssistantStore_ReferenceCascade(t *testing.T) {
	t.Run("deleting the referenced version removes the join record", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		assistant := seedEvolutionAssistant(t, db, org.ID)

		_, err := NewAssistantVersionStore(db).Delete(ctx, org.ID, assistant.AssistantVersionID)
		require.NoError(t, err)

		_, err = st.Get(ctx, org.ID, assistant.ID)
		require.ErrorIs(t, err, store.ErrEvolutionAssistantNotFound)
	})

	t.Run("deleting the referenced instance removes the join record", func(t *testing.T) {
		db := NewDB()
		st := NewEvolutionAssistantStore(db)
		ctx := context.Background()

		org := seedOrganization(t, db, "Acme Corp")
		assistant := seedEvolutionAssistant(t, db, org.ID)
		survivor := seedEvolutionAssistant(t, db, org.ID)

		_, err := NewEvolutionInstanceStore(db).Delete(ctx, org.ID, assistant.EvolutionInstanceID)
		require.NoError(t, err)

		_, err = st.Get(ctx, org.ID, assistant.ID)
		require.ErrorIs(t, err, store.ErrEvolutionAssistantNotFound)

		// Join records pointing at other instances stay.
		kept, err := st.Get(ctx, org.ID, survivor.ID)
		require.NoError(t, err)
		require.Equal(t, survivor.ID, kept.ID)
	})
}
