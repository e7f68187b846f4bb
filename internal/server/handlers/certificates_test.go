package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/certificate"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/config"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/issuance"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/roster"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/server/responses"
)

type handlerFixture struct {
	handlers *CertificateHandlers
	roster   *roster.Roster
	gen      *certificate.Generator
	log      *issuance.Log
}

func newFixture(t *testing.T, adminKey string) *handlerFixture {
	t.Helper()
	dir := t.TempDir()

	studentCSV := filepath.Join(dir, "students.csv")
	require.NoError(t, os.WriteFile(studentCSV, []byte(
		"Name,Student_Id,Email,Course\nAda Lovelace,1001,ada@example.org,Go 101\nGrace Hopper,1002,grace@example.org,Go 101\n"), 0o644))
	managementCSV := filepath.Join(dir, "management.csv")
	require.NoError(t, os.WriteFile(managementCSV, []byte(
		"Name,Mgmt_Id,Email,Position\nJean Bartik,M01,jean@example.org,Chair\n"), 0o644))

	r := roster.New(studentCSV, managementCSV, "CERT")

	gen, err := certificate.NewGenerator(config.Default().Certificate, filepath.Join(dir, "templates"), filepath.Join(dir, "certs"))
	require.NoError(t, err)

	log, err := issuance.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })

	return &handlerFixture{
		handlers: NewCertificateHandlers(r, gen, log, nil, nil, adminKey),
		roster:   r,
		gen:      gen,
		log:      log,
	}
}

func TestHandleVerifyKnownStudent(t *testing.T) {
	f := newFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/verify?name=Ada+Lovelace&student_id=1001", nil)
	rec := httptest.NewRecorder()
	f.handlers.HandleVerify(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "Ada Lovelace", resp.Name)
	assert.Equal(t, "CERT-1001", resp.CertificateID)
	assert.False(t, resp.CertificateExists)
}

func TestHandleVerifyRecordsIssuanceEvent(t *testing.T) {
	f := newFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/verify?name=Ada+Lovelace&student_id=1001", nil)
	f.handlers.HandleVerify(httptest.NewRecorder(), req)

	events, err := f.log.ByCertificate(req.Context(), "CERT-1001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, issuance.EventVerified, events[0].Type)
}

func TestHandleVerifyUnknownStudent(t *testing.T) {
	f := newFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/verify?name=Nobody&student_id=9999", nil)
	rec := httptest.NewRecorder()
	f.handlers.HandleVerify(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleVerifyCaseInsensitiveName(t *testing.T) {
	f := newFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/verify?name=ada+lovelace&student_id=1001", nil)
	rec := httptest.NewRecorder()
	f.handlers.HandleVerify(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleVerifyMissingParams(t *testing.T) {
	f := newFixture(t, "")

	rec := httptest.NewRecorder()
	f.handlers.HandleVerify(rec, httptest.NewRequest(http.MethodGet, "/verify?name=Ada+Lovelace", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleVerifyRejectsPost(t *testing.T) {
	f := newFixture(t, "")

	rec := httptest.NewRecorder()
	f.handlers.HandleVerify(rec, httptest.NewRequest(http.MethodPost, "/verify?name=Ada+Lovelace&student_id=1001", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleVerifyManagement(t *testing.T) {
	f := newFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/verify-management?name=Jean+Bartik&mgmt_id=M01", nil)
	rec := httptest.NewRecorder()
	f.handlers.HandleVerifyManagement(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.VerifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CERT-MGMT-M01", resp.CertificateID)
	assert.Equal(t, "Chair", resp.Position)
}

func TestHandleCertificateServesExistingPDF(t *testing.T) {
	f := newFixture(t, "")

	// Pre-render stand-in: a PDF already on disk is served without rendering.
	pdfPath := f.gen.Path("CERT-1001")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4 fake"), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/certificate?name=Ada+Lovelace&student_id=1001", nil)
	rec := httptest.NewRecorder()
	f.handlers.HandleCertificate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "CERT-1001.pdf")
	assert.Contains(t, rec.Body.String(), "%PDF")
}

func TestHandleCertificateRecordsDownload(t *testing.T) {
	f := newFixture(t, "")

	pdfPath := f.gen.Path("CERT-1001")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4 fake"), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/certificate?name=Ada+Lovelace&student_id=1001", nil)
	f.handlers.HandleCertificate(httptest.NewRecorder(), req)

	events, err := f.log.ByCertificate(req.Context(), "CERT-1001")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, issuance.EventDownloaded, events[0].Type)
}

func TestHandleCertificateUnknownStudent(t *testing.T) {
	f := newFixture(t, "")

	rec := httptest.NewRecorder()
	f.handlers.HandleCertificate(rec, httptest.NewRequest(http.MethodGet, "/certificate?name=Nobody&student_id=9999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGenerateAllRejectsWrongAdminKey(t *testing.T) {
	f := newFixture(t, "sekrit")

	rec := httptest.NewRecorder()
	f.handlers.HandleGenerateAll(rec, httptest.NewRequest(http.MethodGet, "/generate-all?admin_key=wrong", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	f.handlers.HandleGenerateAll(rec, httptest.NewRequest(http.MethodGet, "/generate-all", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleGenerateAllAcceptsKeyViaHeader(t *testing.T) {
	f := newFixture(t, "sekrit")

	// Rendering fails without a template; the guard is what is under test.
	req := httptest.NewRequest(http.MethodGet, "/generate-all", nil)
	req.Header.Set(AdminKeyHeader, "sekrit")
	rec := httptest.NewRecorder()
	f.handlers.HandleGenerateAll(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleGenerateAllSkipsExisting(t *testing.T) {
	f := newFixture(t, "")

	// Both students already have certificates on disk, so the batch pass has
	// nothing to render and reports them as skipped.
	require.NoError(t, os.WriteFile(f.gen.Path("CERT-1001"), []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(f.gen.Path("CERT-1002"), []byte("%PDF-1.4"), 0o644))

	rec := httptest.NewRecorder()
	f.handlers.HandleGenerateAll(rec, httptest.NewRequest(http.MethodGet, "/generate-all", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.GenerateAllResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 0, resp.Generated)
	assert.Equal(t, 2, resp.Skipped)
	assert.ElementsMatch(t, []string{"CERT-1001", "CERT-1002"}, resp.SkippedIDs)
}
