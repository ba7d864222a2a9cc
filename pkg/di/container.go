// Package di provides dependency injection container
package di

import (
	"io"

	"github.com/go-kit/log"

	"github.com/ssargent/eflrscan/pkg/api"
	"github.com/ssargent/eflrscan/pkg/config"
	"github.com/ssargent/eflrscan/pkg/logging"
)

// Container holds all the dependencies for the application
type Container struct {
	config         *config.Config
	logger         log.Logger
	catalogFactory api.CatalogFactory
	serverFactory  api.ServerFactory
}

// NewContainer creates a new dependency injection container with the default
// configuration and a silent logger
func NewContainer() *Container {
	return &Container{
		config:         config.DefaultConfig(),
		logger:         log.NewNopLogger(),
		catalogFactory: api.NewCatalogFactory(),
		serverFactory:  api.NewServerFactory(),
	}
}

// Configure installs cfg and builds the logger it describes, writing to w
func (c *Container) Configure(cfg *config.Config, w io.Writer) error {
	logger, err := logging.New(cfg.Logging, w)
	if err != nil {
		return err
	}
	c.config = cfg
	c.logger = logger
	return nil
}

// GetConfig returns the active configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLogger returns the shared logger
func (c *Container) GetLogger() log.Logger {
	return c.logger
}

// GetCatalogFactory returns the catalog factory
func (c *Container) GetCatalogFactory() api.CatalogFactory {
	return c.catalogFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetCatalogFactory allows overriding the catalog factory (for testing)
func (c *Container) SetCatalogFactory(factory api.CatalogFactory) {
	c.catalogFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
