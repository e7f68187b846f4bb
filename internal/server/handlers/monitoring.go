package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/certificate"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/config"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/issuance"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/landing"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/logfields"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/roster"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/server/responses"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/version"
)

// MonitoringHandlers contains the landing page, health, and admin status handlers.
type MonitoringHandlers struct {
	cfg          *config.Config
	roster       *roster.Roster
	generator    *certificate.Generator
	log          *issuance.Log
	page         *landing.Page
	startTime    time.Time
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(cfg *config.Config, r *roster.Roster, g *certificate.Generator, log *issuance.Log, page *landing.Page, startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		cfg:          cfg,
		roster:       r,
		generator:    g,
		log:          log,
		page:         page,
		startTime:    startTime,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleRoot serves the landing page. A static templates/index.html takes
// precedence over the rendered Markdown page.
func (h *MonitoringHandlers) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if htmlPath := filepath.Join(h.cfg.Paths.TemplatesDir, landing.IndexFile); fileExists(htmlPath) {
		http.ServeFile(w, r, htmlPath)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(h.page.HTML); err != nil {
		slog.Error("failed writing landing page", logfields.Error(err))
	}
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET")
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Paths: []responses.PathStatus{
			pathStatus("roster_csv", h.roster.StudentCSVPath()),
			pathStatus("management_csv", h.cfg.Paths.ManagementCSV),
			pathStatus("templates_dir", h.cfg.Paths.TemplatesDir),
			pathStatus("certificates_dir", h.cfg.Paths.CertificatesDir),
			pathStatus("frontend_dist", h.cfg.Paths.FrontendDist),
			pathStatus("publish_dir", h.cfg.Paths.PublishDir),
		},
	}

	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write health response")
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleStatus handles the admin status endpoint.
func (h *MonitoringHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET")
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	status := &responses.StatusResponse{
		Status:             "running",
		Uptime:             time.Since(h.startTime).Seconds(),
		StartTime:          h.startTime,
		CertificatesOnDisk: h.generator.Count(),
		Timestamp:          time.Now().UTC(),
	}
	if students, err := h.roster.Students(); err == nil {
		status.RosterSize = len(students)
	}
	if members, err := h.roster.Management(); err == nil {
		status.ManagementSize = len(members)
	}
	status.IssuanceCounts = h.issuanceCounts(r.Context())

	if err := writeJSONPretty(w, r, http.StatusOK, status); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write status response")
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

func (h *MonitoringHandlers) issuanceCounts(ctx context.Context) map[string]int {
	counts, err := h.log.CountByType(ctx)
	if err != nil {
		slog.Warn("failed to read issuance counts", logfields.Error(err))
		return nil
	}
	if len(counts) == 0 {
		return nil
	}
	out := make(map[string]int, len(counts))
	for k, v := range counts {
		out[string(k)] = v
	}
	return out
}

func pathStatus(name, path string) responses.PathStatus {
	return responses.PathStatus{Name: name, Path: path, Exists: fileExists(path)}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
