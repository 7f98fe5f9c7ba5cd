package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kepae/aifr-jsonld-example/graph"
	"github.com/kepae/aifr-jsonld-example/jsonld"
	"github.com/kepae/aifr-jsonld-example/kb"
	"github.com/kepae/aifr-jsonld-example/report"
)

const testSystems = `{"@graph": [
	{
		"@id": "https://example.org/systems/orion-7",
		"@type": "schema:SoftwareApplication",
		"name": "Orion", "version": "7.2",
		"publisher": {"@id": "https://example.org/orgs/stellar-labs"},
		"_aifr_internal": {"slug": "orion-7", "displayName": "Orion 7 (Stellar Labs)"}
	}
]}`

const testOrganizations = `{"@graph": [
	{
		"@id": "https://example.org/orgs/stellar-labs",
		"@type": "schema:Organization",
		"name": "Stellar Labs",
		"_aifr_internal": {"slug": "stellar-labs", "displayName": "Stellar Labs"}
	}
]}`

func testServer(t *testing.T) *Server {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ai-systems.jsonld"), []byte(testSystems), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "organizations.jsonld"), []byte(testOrganizations), 0o644))

	store, err := kb.Open(dir, "", "", nil)
	require.NoError(t, err)

	return New(
		store,
		report.NewResolver("", nil),
		jsonld.NewSerializer(""),
		graph.NewPublisher(nil, "", nil),
		NewMetrics(),
		nil,
	)
}

func TestSubmitReport_OK(t *testing.T) {
	srv := testServer(t)

	payload := `{
		"ai_systems": ["orion-7"],
		"ai_systems_unknown": [],
		"flaw_description": "Model hallucinated a citation",
		"flaw_severity": "High"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var doc jsonld.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "aifr:AIFlawReport", doc.Type)
	assert.Equal(t, "AI Flaw Report: Orion 7 (Stellar Labs)", doc.Name)
	require.Len(t, doc.AISystem, 1)
	assert.Equal(t, "Orion", doc.AISystem[0]["name"])
}

func TestSubmitReport_ValidationError(t *testing.T) {
	srv := testServer(t)

	payload := `{
		"ai_systems": [],
		"ai_systems_unknown": [],
		"flaw_description": "short",
		"flaw_severity": "Extreme"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Error      string   `json:"error"`
		Violations []string `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Violations, 3)
}

func TestSubmitReport_ResolutionError(t *testing.T) {
	srv := testServer(t)

	payload := `{
		"ai_systems": ["nonexistent-slug"],
		"flaw_description": "Dropdown data was stale",
		"flaw_severity": "Low"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "no referenced AI system could be resolved")
}

func TestSubmitReport_MalformedBody(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReport_MethodNotAllowed(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/reports", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSystems(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/systems", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Systems []kb.Option `json:"systems"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Systems, 1)
	assert.Equal(t, "orion-7", resp.Systems[0].Slug)
	assert.Equal(t, "Orion 7 (Stellar Labs)", resp.Systems[0].DisplayName)
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status": "ok"`)
}

func TestRequestID_Propagated(t *testing.T) {
	srv := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get("X-Request-ID"))
}
