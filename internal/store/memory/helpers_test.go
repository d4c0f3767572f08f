package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/slug"
)

func seedOrganization(t *testing.T, db *DB, name string) *models.Organization {
	t.Helper()
	now := time.Now()
	org := &models.Organization{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, NewOrganizationStore(db).Create(context.Background(), org))
	return org
}

func seedAssistantVersion(t *testing.T, db *DB, orgID uuid.UUID) *models.AssistantVersion {
	t.Helper()
	now := time.Now()
	version := &models.AssistantVersion{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: orgID,
		Model:          "gpt-4o",
		Instructions:   "You are a helpful assistant.",
		Temperature:    models.DefaultTemperature,
		Version:        models.DefaultVersion,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, NewAssistantVersionStore(db).Create(context.Background(), version))
	return version
}

func seedEvolutionInstance(t *testing.T, db *DB, orgID uuid.UUID) *models.EvolutionInstance {
	t.Helper()
	now := time.Now()
	instance := &models.EvolutionInstance{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: orgID,
		Instance:       fmt.Sprintf("instance-%s", uuid.Must(uuid.NewV7())),
		URL:            "https://evolution.example.com",
		Hash:           "secret-hash",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, NewEvolutionInstanceStore(db).Create(context.Background(), instance))
	return instance
}

func seedStorageFile(t *testing.T, db *DB, orgID uuid.UUID) *models.StorageFile {
	t.Helper()
	now := time.Now()
	file := &models.StorageFile{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: orgID,
		Filename:       "knowledge.pdf",
		URL:            "https://files.example.com/knowledge.pdf",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, NewStorageFileStore(db).Create(context.Background(), file))
	return file
}

func seedEvolutionAssistant(t *testing.T, db *DB, orgID uuid.UUID) *models.EvolutionAssistant {
	t.Helper()
	version := seedAssistantVersion(t, db, orgID)
	instance := seedEvolutionInstance(t, db, orgID)
	now := time.Now()
	assistant := &models.EvolutionAssistant{
		ID:                  uuid.Must(uuid.NewV7()),
		OrganizationID:      orgID,
		Env:                 models.EnvironmentStaging,
		AssistantVersionID:  version.ID,
		EvolutionInstanceID: instance.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	require.NoError(t, NewEvolutionAssistantStore(db).Create(context.Background(), assistant))
	return assistant
}
