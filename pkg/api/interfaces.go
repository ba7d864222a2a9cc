// Package api provides interfaces for dependency injection
package api

import (
	"context"

	"github.com/go-kit/log"
)

// Catalog is a ScanStore that owns resources
type Catalog interface {
	ScanStore
	Close() error
}

// CatalogFactory opens result catalogs
type CatalogFactory interface {
	// OpenCatalog opens or creates the catalog in dataDir
	OpenCatalog(dataDir string, logger log.Logger) (Catalog, error)
}

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves the API until ctx is cancelled
	StartServer(ctx context.Context, store ScanStore, config ServerConfig, logger log.Logger) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
