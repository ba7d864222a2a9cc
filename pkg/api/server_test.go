package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/eflrscan/pkg/catalog"
	"github.com/ssargent/eflrscan/pkg/scan"
	"github.com/ssargent/eflrscan/pkg/scan/scantest"
)

const testAPIKey = "test-key"

// setupTestServer creates a router over a catalog in a temp dir
func setupTestServer(t *testing.T, config ServerConfig) (http.Handler, *prometheus.Registry) {
	t.Helper()

	cat, err := catalog.Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { cat.Close() })

	config.APIKey = testAPIKey
	if config.Location == nil {
		config.Location = time.UTC
	}

	reg := prometheus.NewRegistry()
	server := NewServer(cat, config, NewMetrics(reg), scan.NewMetrics(reg), nil)
	return NewRouter(server, reg), reg
}

func do(t *testing.T, h http.Handler, method, path string, body []byte) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp APIResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

// decodeData re-decodes the data field of an envelope into out
func decodeData(t *testing.T, resp APIResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestRouter_Health(t *testing.T) {
	h, _ := setupTestServer(t, ServerConfig{})

	w, resp := do(t, h, "GET", "/api/v1/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]interface{}{"status": "healthy"}, resp.Data)
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	h, _ := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/api/v1/scans", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("GET", "/api/v1/scans", nil)
	req.Header.Set("X-API-Key", "wrong")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Registry(t *testing.T) {
	h, _ := setupTestServer(t, ServerConfig{})

	w, resp := do(t, h, "GET", "/api/v1/registry", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var types []struct {
		Code     int      `json:"Code"`
		Short    string   `json:"Short"`
		SetTypes []string `json:"SetTypes"`
	}
	decodeData(t, resp, &types)
	require.Len(t, types, 12)
	assert.Equal(t, "FHLR", types[0].Short)
	assert.Contains(t, types[5].SetTypes, "PARAMETER")
}

func TestRouter_ScanLifecycle(t *testing.T) {
	h, _ := setupTestServer(t, ServerConfig{})

	w, resp := do(t, h, "POST", "/api/v1/scans?source=sample.dlis", scantest.Sample("WELL"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var created ScanResponse
	decodeData(t, resp, &created)
	require.NotNil(t, created.Summary)
	assert.Nil(t, created.Result)
	assert.Equal(t, "sample.dlis", created.Summary.Source)
	assert.Equal(t, []string{"WELL"}, created.Summary.Objects)
	id := created.Summary.ID

	w, resp = do(t, h, "GET", "/api/v1/scans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []catalog.Summary
	decodeData(t, resp, &list)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)

	w, resp = do(t, h, "GET", "/api/v1/scans/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entry catalog.Entry
	decodeData(t, resp, &entry)
	assert.Len(t, entry.Result.Objects["WELL"], 3)

	w, resp = do(t, h, "GET", "/api/v1/scans/"+id+"/objects/WELL/CHANNEL", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var frame struct {
		Header []string   `json:"header"`
		Data   [][]string `json:"data"`
	}
	decodeData(t, resp, &frame)
	assert.Equal(t, []string{"", "NAME"}, frame.Header)
	assert.Equal(t, [][]string{{"1&0&GR", "GR"}}, frame.Data)

	w, _ = do(t, h, "GET", "/api/v1/scans/"+id+"/objects/WELL/ORIGIN", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(t, h, "DELETE", "/api/v1/scans/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, h, "GET", "/api/v1/scans/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_DryRun(t *testing.T) {
	h, _ := setupTestServer(t, ServerConfig{})

	w, resp := do(t, h, "POST", "/api/v1/scans?dry_run=true", scantest.Sample("WELL"))
	require.Equal(t, http.StatusOK, w.Code)

	var out ScanResponse
	decodeData(t, resp, &out)
	assert.Nil(t, out.Summary)
	require.NotNil(t, out.Result)
	assert.Contains(t, out.Result.Objects, "WELL")

	w, resp = do(t, h, "GET", "/api/v1/scans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, resp.Data)
}

func TestRouter_UploadErrors(t *testing.T) {
	h, _ := setupTestServer(t, ServerConfig{MaxUploadSize: 16})

	w, resp := do(t, h, "POST", "/api/v1/scans", []byte{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, resp.Success)

	w, _ = do(t, h, "POST", "/api/v1/scans", scantest.Sample("WELL"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_BadID(t *testing.T) {
	h, _ := setupTestServer(t, ServerConfig{})

	w, _ := do(t, h, "GET", "/api/v1/scans/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = do(t, h, "DELETE", "/api/v1/scans/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := setupTestServer(t, ServerConfig{})

	_, _ = do(t, h, "POST", "/api/v1/scans?dry_run=1", scantest.Sample("WELL"))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `eflrscan_http_requests_total{endpoint="/api/v1/scans",method="POST",status_code="200"} 1`)
	assert.Contains(t, body, `eflrscan_segments_total{position="continuation"} 1`)
	assert.Contains(t, body, "eflrscan_scans_total 1")
}

func TestRouter_Swagger(t *testing.T) {
	h, _ := setupTestServer(t, ServerConfig{})

	req := httptest.NewRequest("GET", "/swagger/swagger.json", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc["swagger"])
	assert.Contains(t, doc["paths"], "/scans/{id}/objects/{object}/{kind}")

	req = httptest.NewRequest("GET", "/swagger/index.html", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "swagger-ui")
}
