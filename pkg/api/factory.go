// Package api provides factory implementations for dependency injection
package api

import (
	"context"

	"github.com/go-kit/log"

	"github.com/ssargent/eflrscan/pkg/catalog"
)

// DefaultCatalogFactory opens pebble backed catalogs
type DefaultCatalogFactory struct{}

// NewCatalogFactory creates a new catalog factory
func NewCatalogFactory() CatalogFactory {
	return &DefaultCatalogFactory{}
}

// OpenCatalog opens the catalog in dataDir
func (f *DefaultCatalogFactory) OpenCatalog(dataDir string, logger log.Logger) (Catalog, error) {
	c, err := catalog.Open(dataDir, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(ctx context.Context, store ScanStore, config ServerConfig, logger log.Logger) error {
	return StartServer(ctx, store, config, logger)
}
