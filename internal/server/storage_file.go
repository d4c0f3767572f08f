package server

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
	"github.com/evoassist/backend/internal/pagination"
)

type createStorageFileRequest struct {
	Filename    string  `json:"filename"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
}

func (s *Server) createStorageFile(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	var req createStorageFileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Filename == "" {
		return respondError(c, fiber.StatusBadRequest, "Filename is required")
	}
	if req.URL == "" {
		return respondError(c, fiber.StatusBadRequest, "URL is required")
	}

	now := time.Now().UTC()
	file := &models.StorageFile{
		ID:             uuid.Must(uuid.NewV7()),
		OrganizationID: org.ID,
		Filename:       req.Filename,
		Description:    req.Description,
		URL:            req.URL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.stores.StorageFiles.Create(c.UserContext(), file); err != nil {
		return s.respondStoreError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(file)
}

func (s *Server) listStorageFiles(c *fiber.Ctx) error {
	org := organizationFromContext(c)
	page := pageFromQuery(c)

	files, total, err := s.stores.StorageFiles.List(c.UserContext(), org.ID, page)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	if files == nil {
		files = []*models.StorageFile{}
	}

	return c.JSON(listResponse{Data: files, Meta: pagination.NewMeta(total, page)})
}

func (s *Server) getStorageFile(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	file, err := s.stores.StorageFiles.Get(c.UserContext(), org.ID, parseResourceID(c))
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(file)
}

func (s *Server) updateStorageFile(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	// json.Unmarshal rather than BodyParser so the description keeps
	// its absent/null/value distinction.
	var patch models.StorageFilePatch
	if err := json.Unmarshal(c.Body(), &patch); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if patch.Filename != nil && *patch.Filename == "" {
		return respondError(c, fiber.StatusBadRequest, "Filename is required")
	}
	if patch.URL != nil && *patch.URL == "" {
		return respondError(c, fiber.StatusBadRequest, "URL is required")
	}

	file, err := s.stores.StorageFiles.Update(c.UserContext(), org.ID, parseResourceID(c), &patch)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(file)
}

func (s *Server) deleteStorageFile(c *fiber.Ctx) error {
	org := organizationFromContext(c)

	file, err := s.stores.StorageFiles.Delete(c.UserContext(), org.ID, parseResourceID(c))
	if err != nil {
		return s.respondStoreError(c, err)
	}

	return c.JSON(file)
}
