package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/ssargent/eflrscan/pkg/catalog"
	"github.com/ssargent/eflrscan/pkg/eflr"
	"github.com/ssargent/eflrscan/pkg/scan"
	"github.com/ssargent/eflrscan/pkg/source"
)

const defaultMaxUploadSize = 256 << 20

// Server holds the API server state
type Server struct {
	store       ScanStore
	config      ServerConfig
	metrics     *Metrics
	scanMetrics *scan.Metrics
	logger      log.Logger
}

// NewServer creates a new API server
func NewServer(store ScanStore, config ServerConfig, metrics *Metrics, scanMetrics *scan.Metrics, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Server{
		store:       store,
		config:      config,
		metrics:     metrics,
		scanMetrics: scanMetrics,
		logger:      logger,
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleRegistry godoc
//
//	@Summary		Object-set registry
//	@Description	List the logical record type codes and the set types each permits
//	@Tags			registry
//	@Produce		json
//	@Success		200	{array}	eflr.EFLRType
//	@Router			/registry [get]
//	@Security		ApiKeyAuth
func (s *Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, eflr.Types())
}

// handleCreateScan godoc
//
//	@Summary		Scan a file
//	@Description	Scan the uploaded bytes for EFLR records and store the result
//	@Tags			scans
//	@Accept			octet-stream
//	@Produce		json
//	@Param			body	body		[]byte	true	"Raw file contents"
//	@Param			source	query		string	false	"Name recorded for the upload"
//	@Param			dry_run	query		bool	false	"Return the result without storing it"
//	@Success		200		{object}	ScanResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		413		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/scans [post]
//	@Security		ApiKeyAuth
func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	limit := s.config.MaxUploadSize
	if limit <= 0 {
		limit = defaultMaxUploadSize
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, "Upload exceeds "+strconv.FormatInt(limit, 10)+" bytes", http.StatusRequestEntityTooLarge)
			return
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) == 0 {
		sendError(w, "Request body is empty", http.StatusBadRequest)
		return
	}
	s.metrics.RecordUpload(int64(len(body)))

	name := r.URL.Query().Get("source")
	if name == "" {
		name = "upload"
	}

	scanner := scan.NewScanner(source.Bytes(body), scan.ScannerConfig{
		Logger:       log.With(s.logger, "source", name),
		Metrics:      s.scanMetrics,
		Location:     s.config.Location,
		OrphanPolicy: s.config.OrphanPolicy,
	})
	res := scanner.Scan()

	if dry, _ := strconv.ParseBool(r.URL.Query().Get("dry_run")); dry {
		sendSuccess(w, ScanResponse{Result: res})
		return
	}

	start := time.Now()
	sum, err := s.store.Save(name, int64(len(body)), res)
	s.metrics.RecordCatalogOperation("save", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, err)
		return
	}

	sendSuccess(w, ScanResponse{Summary: sum})
}

// handleListScans godoc
//
//	@Summary		List scans
//	@Description	List the summaries of all stored scans
//	@Tags			scans
//	@Produce		json
//	@Success		200	{array}		catalog.Summary
//	@Failure		500	{object}	map[string]string
//	@Router			/scans [get]
//	@Security		ApiKeyAuth
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	list, err := s.store.List()
	s.metrics.RecordCatalogOperation("list", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, err)
		return
	}
	s.metrics.UpdateCatalogStats(len(list))
	sendSuccess(w, list)
}

// handleGetScan godoc
//
//	@Summary		Get a scan
//	@Description	Get a stored scan with all of its frames
//	@Tags			scans
//	@Produce		json
//	@Param			id	path		string	true	"Scan id"
//	@Success		200	{object}	catalog.Entry
//	@Failure		400	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/scans/{id} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.loadEntry(w, r)
	if !ok {
		return
	}
	sendSuccess(w, entry)
}

// handleGetFrame godoc
//
//	@Summary		Get one frame
//	@Description	Get the frame stored under an object name and record key such as HEADER or CHANNEL_1
//	@Tags			scans
//	@Produce		json
//	@Param			id		path		string	true	"Scan id"
//	@Param			object	path		string	true	"Object name"
//	@Param			kind	path		string	true	"Record key"
//	@Success		200		{object}	eflr.Frame
//	@Failure		404		{object}	map[string]string
//	@Router			/scans/{id}/objects/{object}/{kind} [get]
//	@Security		ApiKeyAuth
func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.loadEntry(w, r)
	if !ok {
		return
	}

	object := chi.URLParam(r, "object")
	kind := chi.URLParam(r, "kind")
	frame, ok := entry.Result.Objects.Frame(object, kind)
	if !ok {
		sendError(w, "Frame not found", http.StatusNotFound)
		return
	}
	sendSuccess(w, frame)
}

// handleDeleteScan godoc
//
//	@Summary		Delete a scan
//	@Tags			scans
//	@Produce		json
//	@Param			id	path		string	true	"Scan id"
//	@Success		200	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Router			/scans/{id} [delete]
//	@Security		ApiKeyAuth
func (s *Server) handleDeleteScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	start := time.Now()
	err := s.store.Delete(id)
	s.metrics.RecordCatalogOperation("delete", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, err)
		return
	}
	sendSuccess(w, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) loadEntry(w http.ResponseWriter, r *http.Request) (*catalog.Entry, bool) {
	id := chi.URLParam(r, "id")

	start := time.Now()
	entry, err := s.store.Get(id)
	s.metrics.RecordCatalogOperation("get", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, err)
		return nil, false
	}
	return entry, true
}

func (s *Server) sendStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		sendError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrInvalidID):
		sendError(w, err.Error(), http.StatusBadRequest)
	default:
		level.Error(s.logger).Log("msg", "catalog operation failed", "err", err)
		sendError(w, "Catalog operation failed", http.StatusInternalServerError)
	}
}

// startMetricsUpdater periodically refreshes the catalog size gauge
func (s *Server) startMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			list, err := s.store.List()
			if err != nil {
				level.Warn(s.logger).Log("msg", "refreshing catalog metrics", "err", err)
				continue
			}
			s.metrics.UpdateCatalogStats(len(list))
		}
	}
}
