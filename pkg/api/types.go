package api

import (
	"time"

	"github.com/ssargent/eflrscan/pkg/catalog"
	"github.com/ssargent/eflrscan/pkg/scan"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ScanResponse is returned after an upload is scanned
type ScanResponse struct {
	Summary *catalog.Summary `json:"summary,omitempty"`
	Result  *scan.Result     `json:"result,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port          int
	Bind          string
	APIKey        string
	MaxUploadSize int64
	Location      *time.Location // DTIME rendering
	OrphanPolicy  scan.OrphanPolicy
}

// ScanStore persists scan results
type ScanStore interface {
	Save(source string, size int64, res *scan.Result) (*catalog.Summary, error)
	Get(id string) (*catalog.Entry, error)
	List() ([]catalog.Summary, error)
	Delete(id string) error
}
