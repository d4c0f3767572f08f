package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

type createEvolutionAssistantRequest struct {
	Env                 models.Environment `json:"env"`
	AssistantVersionID  string             `json:"assistantVersionId"`
	EvolutionInstanceID string             `json:"evolutionInstanceId"`
}

func (s *Server) createEvolutionAssistant(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	var req createEvolutionAssistantRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if !req.Env.Valid() {
		return respondError(c, fiber.StatusBadRequest, "Env must be one of: prod, staging")
	}

	versionID, err := uuid.Parse(req.AssistantVersionID)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Assistant version not found in this organization")
	}
	instanceID, err := uuid.Parse(req.EvolutionInstanceID)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Evolution instance not found in this organization")
	}

	now := time.Now().UTC()
	assistant := &models.EvolutionAssistant{
		ID:                  uuid.Must(uuid.NewV7()),
		OrganizationID:      org.ID,
		Env:                 req.Env,
		AssistantVersionID:  versionID,
		EvolutionInstanceID: instanceID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.stores.EvolutionAssistants.Create(c.UserContext(), assistant); err != nil {
		return s.respondStoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(assistant)
}

func (s *Server) listEvolutionAssistants(c *fiber.Ctx) error {
	org := organizationFromContext(c)
	page := pageFromQuery(c)

	env := models.Environment(c.Query("env"))
	if env != "" && !env.Valid() {
		return respondError(c, fiber.StatusBadRequest, "Env must be one of: prod, staging")
	}

	assistants, total, err := s.stores.EvolutionAssistants.List(c.UserContext(), org.ID, env, page)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	if assistants == nil {
		assistants = []*models.EvolutionAssistant{}
	}

	return c.JSON(listResponse{Data: assistants, Meta: pagination.NewMeta(total, page)})
}

func (s *Server) getEvolutionAssistant(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	assistant, err := s.stores.EvolutionAssistants.Get(c.UserContext(), org.ID, parseResourceID(c))
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(assistant)
}

func (s *Server) updateEvolutionAssistant(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	var patch models.EvolutionAssistantPatch
	if err := c.BodyParser(&patch); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if patch.Env != nil && !patch.Env.Valid() {
		return respondError(c, fiber.StatusBadRequest, "Env must be one of: prod, staging")
	}

	assistant, err := s.stores.EvolutionAssistants.Update(c.UserContext(), org.ID, parseResourceID(c), &patch)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(assistant)
}

func (s *Server) deleteEvolutionAssistant(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	assistant, err := s.stores.EvolutionAssistants.Delete(c.UserContext(), org.ID, parseResourceID(c))
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(assistant)
}
