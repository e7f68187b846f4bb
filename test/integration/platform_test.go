package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/issuance"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/publish"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/server/responses"
)

func TestPublishThenServeFrontend(t *testing.T) {
	e := setupEnv(t)

	res, err := publish.Publish(e.Cfg.Paths.FrontendDist, e.Cfg.Paths.PublishDir)
	require.NoError(t, err)
	assert.Contains(t, res.Confirmation(), e.Cfg.Paths.PublishDir)

	// The published tree mirrors the frontend build.
	data, err := os.ReadFile(filepath.Join(e.Cfg.Paths.PublishDir, "assets", "app.js"))
	require.NoError(t, err)
	assert.Equal(t, "console.log('app')", string(data))

	// And the server exposes it under /dist/.
	rec := httptest.NewRecorder()
	e.Server.PublicMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dist/index.html", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "frontend")
}

func TestRepublishReplacesStaleFiles(t *testing.T) {
	e := setupEnv(t)

	_, err := publish.Publish(e.Cfg.Paths.FrontendDist, e.Cfg.Paths.PublishDir)
	require.NoError(t, err)
	writeFile(t, filepath.Join(e.Cfg.Paths.PublishDir, "stale.txt"), "old")

	_, err = publish.Publish(e.Cfg.Paths.FrontendDist, e.Cfg.Paths.PublishDir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(e.Cfg.Paths.PublishDir, "stale.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestVerifyFlowRecordsAuditTrail(t *testing.T) {
	e := setupEnv(t)
	mux := e.Server.PublicMux()

	req := httptest.NewRequest(http.MethodGet, "/verify?name=Grace+Hopper&student_id=1002", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp responses.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "CERT-1002", resp.CertificateID)

	events, err := e.Log.ByCertificate(req.Context(), "CERT-1002")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, issuance.EventVerified, events[0].Type)
}

func TestHealthReportsConfiguredPaths(t *testing.T) {
	e := setupEnv(t)

	rec := httptest.NewRecorder()
	e.Server.PublicMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health responses.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)

	byName := map[string]responses.PathStatus{}
	for _, p := range health.Paths {
		byName[p.Name] = p
	}
	assert.True(t, byName["roster_csv"].Exists)
	assert.True(t, byName["frontend_dist"].Exists)
	assert.False(t, byName["publish_dir"].Exists, "nothing published yet")
}

func TestManagementLookupUsesMgmtIDFormat(t *testing.T) {
	e := setupEnv(t)

	rec := httptest.NewRecorder()
	e.Server.PublicMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/verify-management?name=jean+bartik&mgmt_id=M01", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp responses.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CERT-MGMT-M01", resp.CertificateID)
}
