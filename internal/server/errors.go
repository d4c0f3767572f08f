package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/evoassist/backend/internal/store"
)

// respondStoreError translates a store error into its HTTP response:
// missing records are 404, slug conflicts 409, rejected cross-tenant
// references 400. Anything else is an internal error and gets logged.
func (s *Server) respondStoreError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrOrganizationNotFound):
		return respondError(c, fiber.StatusNotFound, "Organization not found")
	case errors.Is(err, store.ErrAssistantVersionNotFound):
		return respondError(c, fiber.StatusNotFound, "Assistant version not found")
	case errors.Is(err, store.ErrEvolutionInstanceNotFound):
		return respondError(c, fiber.StatusNotFound, "Evolution instance not found")
	case errors.Is(err, store.ErrStorageFileNotFound):
		return respondError(c, fiber.StatusNotFound, "Storage file not found")
	case errors.Is(err, store.ErrEvolutionAssistantNotFound):
		return respondError(c, fiber.StatusNotFound, "Evolution assistant not found")
	case errors.Is(err, store.ErrSlugAlreadyExists):
		return respondError(c, fiber.StatusConflict, "An organization with this slug already exists")
	case errors.Is(err, store.ErrAssistantVersionRefInvalid):
		return respondError(c, fiber.StatusBadRequest, "Assistant version not found in this organization")
	case errors.Is(err, store.ErrEvolutionInstanceRefInvalid):
		return respondError(c, fiber.StatusBadRequest, "Evolution instance not found in this organization")
	}

	zerolog.Ctx(c.UserContext()).Error().Err(err).Msg("store operation failed")

	return respondError(c, fiber.StatusInternalServerError, "Internal server error")
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"message": message,
	})
}
