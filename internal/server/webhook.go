package server

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// evolutionWebhook receives event notifications pushed by Evolution API
// servers. Events are logged for audit, no business logic hangs off
// their content, and malformed payloads are acknowledged so the sender
// does not retry forever.
func (s *Server) evolutionWebhook(c *fiber.Ctx) error {
	var event map[string]any
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		zerolog.Ctx(c.UserContext()).Warn().
			Str("body", string(c.Body())).
			Msg("discarding malformed evolution webhook payload")

		return c.JSON(fiber.Map{"message": "Webhook received"})
	}

	logEvent := zerolog.Ctx(c.UserContext()).Info()
	if name, ok := event["event"].(string); ok {
		logEvent = logEvent.Str("event", name)
	}
	if instance, ok := event["instance"].(string); ok {
		logEvent = logEvent.Str("instance", instance)
	}
	logEvent.RawJSON("payload", c.Body()).Msg("evolution webhook event")

	return c.JSON(fiber.Map{"message": "Webhook received"})
}
