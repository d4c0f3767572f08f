package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/evoassist/backend/internal/models"
)

const localOrganization = "organization"

// requireOrganization resolves the :orgId path parameter to an existing
// organization before any child resource handler runs. Unknown and
// malformed identifiers both read as not found, nothing is leaked about
// other tenants.
func (s *Server) requireOrganization(c *fiber.Ctx) error {
	orgID, err := uuid.Parse(c.Params("orgId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Organization not found",
		})
	}

	org, err := s.stores.Organizations.Get(c.UserContext(), orgID)
	if err != nil {
		return s.respondStoreError(c, err)
	}

	c.Locals(localOrganization, org)

	return c.Next()
}

// organizationFromContext returns the organization resolved by
// requireOrganization.
func organizationFromContext(c *fiber.Ctx) *models.Organization {
	org, _ := c.Locals(localOrganization).(*models.Organization)
	return org
}

// parseResourceID parses the :id path parameter. The zero UUID is
// returned for malformed input so the compound store lookup misses and
// the request resolves to the entity's not-found error.
func parseResourceID(c *fiber.Ctx) uuid.UUID {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}
