package server

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

type createAssistantVersionRequest struct {
	Model        string          `json:"model"`
	Instructions string          `json:"instructions"`
	Functions    json.RawMessage `json:"functions"`
	Temperature  *float32        `json:"temperature"`
	Version      *int32          `json:"version"`
	Published    *bool           `json:"published"`
}

func (s *Server) createAssistantVersion(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	var req createAssistantVersionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Model == "" {
		return respondError(c, fiber.StatusBadRequest, "Model is required")
	}
	if req.Instructions == "" {
		return respondError(c, fiber.StatusBadRequest, "Instructions are required")
	}

	now := time.Now().UTC()
	version := &models.AssistantVersion{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: org.ID,
		Model:          req.Model,
		Instructions:   req.Instructions,
		Functions:      req.Functions,
		Temperature:    models.DefaultTemperature,
		Version:        models.DefaultVersion,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Temperature != nil {
		version.Temperature = *req.Temperature
	}
	if req.Version != nil {
		version.Version = *req.Version
	}
	if req.Published != nil {
		version.Published = *req.Published
	}

	if err := s.stores.AssistantVersions.Create(c.UserContext(), version); err != nil {
		return s.respondStoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(version)
}

func (s *Server) listAssistantVersions(c *fiber.Ctx) error {
	org := organizationFromContext(c)
	page := pageFromQuery(c)

	versions, total, err := s.stores.AssistantVersions.List(c.UserContext(), org.ID, page)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	if versions == nil {
		versions = []*models.AssistantVersion{}
	}

	return c.JSON(listResponse{Data: versions, Meta: pagination.NewMeta(total, page)})
}

func (s *Server) getAssistantVersion(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	version, err := s.stores.AssistantVersions.Get(c.UserContext(), org.ID, parseResourceID(c))
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(version)
}

func (s *Server) updateAssistantVersion(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	var patch models.AssistantVersionPatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if patch.Model != nil && *patch.Model == "" {
		return respondError(c, fiber.StatusBadRequest, "Model is required")
	}
	if patch.Instructions != nil && *patch.Instructions == "" {
		return respondError(c, fiber.StatusBadRequest, "Instructions are required")
	}

	version, err := s.stores.AssistantVersions.Update(c.UserContext(), org.ID, parseResourceID(c), &patch)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(version)
}

func (s *Server) deleteAssistantVersion(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	version, err := s.stores.AssistantVersions.Delete(c.UserContext(), org.ID, parseResourceID(c))
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(version)
}
