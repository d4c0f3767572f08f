// Package server exposes the tenant-scoped resource API over HTTP.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/evoassist/backend/internal/evolution"
	"github.com/evoassist/backend/internal/logger"
	"github.com/evoassist/backend/internal/store"
)

// Stores bundles the persistence interfaces the server depends on.
type Stores struct {
	Organizations       store.OrganizationStore
	AssistantVersions   store.AssistantVersionStore
	EvolutionInstances  store.EvolutionInstanceStore
	StorageFiles        store.StorageFileStore
	EvolutionAssistants store.EvolutionAssistantStore
}

// ConnectionStateFetcher is the part of the Evolution API client the
// instance status endpoint needs.
type ConnectionStateFetcher interface {
	FetchConnectionState(ctx context.Context, instanceName string) (*evolution.ConnectionState, error)
}

// EvolutionClientFactory builds an Evolution API client for the given
// instance endpoint. Tests substitute a stub.
type EvolutionClientFactory func(baseURL, apiKey string) ConnectionStateFetcher

// Server hosts the HTTP API.
type Server struct {
	app                *fiber.App
	stores             Stores
	newEvolutionClient EvolutionClientFactory
	logger             zerolog.Logger
}

// New creates a server wired to the given stores. A nil factory falls
// back to the real Evolution API client.
func New(log zerolog.Logger, stores Stores, factory EvolutionClientFactory) *Server {
	if factory == nil {
		factory = func(baseURL, apiKey string) ConnectionStateFetcher {
			return evolution.New(baseURL, apiKey)
		}
	}

	s := &Server{
		stores:             stores,
		newEvolutionClient: factory,
		logger:             log,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(fiberrecover.New())
	app.Use(logger.HTTPRequests(log))

	app.Get("/health", s.health)
	app.Post("/webhook/evolution", s.evolutionWebhook)

	orgs := app.Group("/organizations")
	orgs.Post("/", s.createOrganization)
	orgs.Get("/", s.listOrganizations)
	orgs.Get("/:orgId", s.getOrganization)
	orgs.Patch("/:orgId", s.updateOrganization)
	orgs.Delete("/:orgId", s.deleteOrganization)

	scoped := orgs.Group("/:orgId", s.requireOrganization)

	versions := scoped.Group("/assistant-versions")
	versions.Post("/", s.createAssistantVersion)
	versions.Get("/", s.listAssistantVersions)
	versions.Get("/:id", s.getAssistantVersion)
	versions.Patch("/:id", s.updateAssistantVersion)
	versions.Delete("/:id", s.deleteAssistantVersion)

	instances := scoped.Group("/evolution-instances")
	instances.Post("/", s.createEvolutionInstance)
	instances.Get("/", s.listEvolutionInstances)
	instances.Get("/:id", s.getEvolutionInstance)
	instances.Get("/:id/status", s.getEvolutionInstanceStatus)
	instances.Patch("/:id", s.updateEvolutionInstance)
	instances.Delete("/:id", s.deleteEvolutionInstance)

	files := scoped.Group("/storage-files")
	files.Post("/", s.createStorageFile)
	files.Get("/", s.listStorageFiles)
	files.Get("/:id", s.getStorageFile)
	files.Patch("/:id", s.updateStorageFile)
	files.Delete("/:id", s.deleteStorageFile)

	assistants := scoped.Group("/evolution-assistants")
	assistants.Post("/", s.createEvolutionAssistant)
	assistants.Get("/", s.listEvolutionAssistants)
	assistants.Get("/:id", s.getEvolutionAssistant)
	assistants.Patch("/:id", s.updateEvolutionAssistant)
	assistants.Delete("/:id", s.deleteEvolutionAssistant)

	s.app = app

	return s
}

// App exposes the underlying fiber application, used by tests to issue
// in-process requests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the API on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
