package server

import (
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
	"github.com/evoassist/backend/internal/slug"
)

type createOrganizationRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type listResponse struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

func pageFromQuery(c *fiber.Ctx) pagination.Params {
	return pagination.Normalize(c.QueryInt("page"), c.QueryInt("limit"))
}

func (s *Server) createOrganization(c *fiber.Ctx) error {
	var req createOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Name == "" || utf8.RuneCountInString(req.Name) > 255 {
		return respondError(c, fiber.StatusBadRequest, "Name must be between 1 and 255 characters")
	}

	// Caller-supplied slugs go through the same normalization as
	// derived ones so every stored slug is URL-safe.
	source := req.Name
	if req.Slug != "" {
		source = req.Slug
	}
	orgSlug := slug.Make(source)
	if orgSlug == "" || len(orgSlug) > 255 {
		return respondError(c, fiber.StatusBadRequest, "Name must contain at least one alphanumeric character")
	}

	now := time.Now().UTC()
	org := &models.Organization{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      req.Name,
		Slug:      orgSlug,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.stores.Organizations.Create(c.UserContext(), org); err != nil {
		return s.respondStoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(org)
}

func (s *Server) listOrganizations(c *fiber.Ctx) error {
	page := pageFromQuery(c)

	orgs, total, err := s.stores.Organizations.List(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	if orgs == nil {
		orgs = []*models.Organization{}
	}

	return c.JSON(listResponse{Data: orgs, Meta: pagination.NewMeta(total, page)})
}

func (s *Server) getOrganization(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("orgId"))
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Organization not found")
	}

	org, err := s.stores.Organizations.Get(c.UserContext(), orgID)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(org)
}

func (s *Server) updateOrganization(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("orgId"))
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Organization not found")
	}

	var patch models.OrganizationPatch
	if err := c.BodyParser(&patch); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if patch.Name != nil && (*patch.Name == "" || utf8.RuneCountInString(*patch.Name) > 255) {
		return respondError(c, fiber.StatusBadRequest, "Name must be between 1 and 255 characters")
	}
	if patch.Slug != nil {
		normalized := slug.Make(*patch.Slug)
		if normalized == "" || len(normalized) > 255 {
			return respondError(c, fiber.StatusBadRequest, "Slug must contain at least one alphanumeric character")
		}
		patch.Slug = &normalized
	}

	org, err := s.stores.Organizations.Update(c.UserContext(), orgID, &patch)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(org)
}

func (s *Server) deleteOrganization(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("orgId"))
	if err != nil {
		return respondError(c, fiber.StatusNotFound, "Organization not found")
	}

	org, err := s.stores.Organizations.Delete(c.UserContext(), orgID)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(org)
}
