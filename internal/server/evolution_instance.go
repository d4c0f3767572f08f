package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

type createEvolutionInstanceRequest struct {
	Instance string `json:"instance"`
	URL      string `json:"url"`
	Hash     string `json:"hash"`
}

func (s *Server) createEvolutionInstance(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	var req createEvolutionInstanceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Instance == "" {
		return respondError(c, fiber.StatusBadRequest, "Instance is required")
	}
	if req.URL == "" {
		return respondError(c, fiber.StatusBadRequest, "URL is required")
	}
	if req.Hash == "" {
		return respondError(c, fiber.StatusBadRequest, "Hash is required")
	}

	now := time.Now().UTC()
	instance := &models.EvolutionInstance{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: org.ID,
		Instance:       req.Instance,
		URL:            req.URL,
		Hash:           req.Hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.stores.EvolutionInstances.Create(c.UserContext(), instance); err != nil {
		return s.respondStoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(instance)
}

func (s *Server) listEvolutionInstances(c *fiber.Ctx) error {
	org := organizationFromContext(c)
	page := pageFromQuery(c)

	instances, total, err := s.stores.EvolutionInstances.List(c.UserContext(), org.ID, page)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	if instances == nil {
		instances = []*models.EvolutionInstance{}
	}

	return c.JSON(listResponse{Data: instances, Meta: pagination.NewMeta(total, page)})
}

func (s *Server) getEvolutionInstance(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	instance, err := s.stores.EvolutionInstances.Get(c.UserContext(), org.ID, parseResourceID(c))
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(instance)
}

// getEvolutionInstanceStatus asks the instance's Evolution API server
// for its live connection state.
func (s *Server) getEvolutionInstanceStatus(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	instance, err := s.stores.EvolutionInstances.Get(c.UserContext(), org.ID, parseResourceID(c))
	if err != nil {
		return s.respondStoreError(c, err)
	}

	client := s.newEvolutionClient(instance.URL, instance.Hash)

	state, err := client.FetchConnectionState(c.UserContext(), instance.Instance)
	if err != nil {
		return respondError(c, fiber.StatusBadGateway, "Evolution API is unreachable")
	}

	return c.JSON(fiber.Map{
		"instance": instance.Instance,
		"state":    state.Instance.State,
	})
}

func (s *Server) updateEvolutionInstance(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	var patch models.EvolutionInstancePatch
	if err := c.BodyParser(&patch); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if patch.Instance != nil && *patch.Instance == "" {
		return respondError(c, fiber.StatusBadRequest, "Instance is required")
	}
	if patch.URL != nil && *patch.URL == "" {
		return respondError(c, fiber.StatusBadRequest, "URL is required")
	}
	if patch.Hash != nil && *patch.Hash == "" {
		return respondError(c, fiber.StatusBadRequest, "Hash is required")
	}

	instance, err := s.stores.EvolutionInstances.Update(c.UserContext(), org.ID, parseResourceID(c), &patch)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(instance)
}

func (s *Server) deleteEvolutionInstance(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	instance, err := s.stores.EvolutionInstances.Delete(c.UserContext(), org.ID, parseResourceID(c))
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(instance)
}
