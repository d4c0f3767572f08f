package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/evoassist/backend/internal/logger"
	"github.com/evoassist/backend/internal/server"
	"github.com/evoassist/backend/internal/store/memory"
	postgresstore "github.com/evoassist/backend/internal/store/postgres"
)

type ServerCmd struct {
	// Server configuration
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8080" env:"EVOASSIST_LISTEN"`

	// Store configuration
	StoreType     string             `help:"store type (memory or postgres)" default:"memory" env:"EVOASSIST_STORE_TYPE" enum:"memory,postgres"`
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

type PostgresStoreFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"POSTGRES_CONNECTION_STRING"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"5"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Migration Configuration
	AutoMigrate bool `help:"run database migrations on startup" default:"false" env:"EVOASSIST_POSTGRES_AUTO_MIGRATE"`
}

func (s *PostgresStoreFlags) Validate() error {
	if s.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or POSTGRES_CONNECTION_STRING)")
	}
	return nil
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	var stores server.Stores

	switch c.StoreType {
	case "postgres":
		if err := c.PostgresStore.Validate(); err != nil {
			return err
		}

		pool, err := postgresstore.Connect(ctx, &postgresstore.Config{
			ConnString:      c.PostgresStore.ConnString,
			MaxConns:        c.PostgresStore.MaxConns,
			MinConns:        c.PostgresStore.MinConns,
			MaxConnLifetime: c.PostgresStore.MaxConnLifetime,
			MaxConnIdleTime: c.PostgresStore.MaxConnIdleTime,
			AutoMigrate:     c.PostgresStore.AutoMigrate,
		})
		if err != nil {
			return err
		}
		defer pool.Close()

		stores = server.Stores{
			Organizations:       postgresstore.NewOrganizationStore(pool),
			AssistantVersions:   postgresstore.NewAssistantVersionStore(pool),
			EvolutionInstances:  postgresstore.NewEvolutionInstanceStore(pool),
			StorageFiles:        postgresstore.NewStorageFileStore(pool),
			EvolutionAssistants: postgresstore.NewEvolutionAssistantStore(pool),
		}

		log.Info().Msg("Using PostgreSQL store")
	default:
		db := memory.NewDB()
		stores = server.Stores{
			Organizations:       memory.NewOrganizationStore(db),
			AssistantVersions:   memory.NewAssistantVersionStore(db),
			EvolutionInstances:  memory.NewEvolutionInstanceStore(db),
			StorageFiles:        memory.NewStorageFileStore(db),
			EvolutionAssistants: memory.NewEvolutionAssistantStore(db),
		}

		log.Warn().Msg("Using in-memory store, data will not survive a restart")
	}

	srv := server.New(log, stores, nil)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", c.Listen).Msg("Listening for HTTP connections")
		errCh <- srv.Listen(c.Listen)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		return srv.Shutdown()
	}
}
