package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/certificate"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/events"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/issuance"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/logfields"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/metrics"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/roster"
	"github.com/space-cow-boy/certificate-distribution-platform/internal/server/responses"
)

// AdminKeyHeader is the alternative to the admin_key query parameter.
const AdminKeyHeader = "X-Admin-Key"

// CertificateHandlers contains the roster lookup, certificate download, and
// batch generation HTTP handlers.
type CertificateHandlers struct {
	roster       *roster.Roster
	generator    *certificate.Generator
	log          *issuance.Log
	publisher    events.Publisher
	recorder     metrics.Recorder
	adminKey     string
	errorAdapter *errors.HTTPErrorAdapter
}

// NewCertificateHandlers creates a new certificate handlers instance. The
// issuance log and publisher may be nil; metrics defaults to a no-op recorder.
func NewCertificateHandlers(r *roster.Roster, g *certificate.Generator, log *issuance.Log, pub events.Publisher, rec metrics.Recorder, adminKey string) *CertificateHandlers {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &CertificateHandlers{
		roster:       r,
		generator:    g,
		log:          log,
		publisher:    pub,
		recorder:     rec,
		adminKey:     adminKey,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleVerify handles the student roster lookup endpoint.
func (h *CertificateHandlers) HandleVerify(w http.ResponseWriter, r *http.Request) {
	name, id, ok := h.lookupParams(w, r, "student_id")
	if !ok {
		return
	}

	student, err := h.roster.FindStudent(name, id)
	if err != nil {
		h.recorder.IncRosterLookup(false)
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.recorder.IncRosterLookup(true)

	certID := h.roster.CertificateID(student.StudentID)
	h.recordEvent(r, certID, issuance.EventVerified, student.Name)

	resp := &responses.VerifyResponse{
		Valid:             true,
		Name:              student.Name,
		StudentID:         student.StudentID,
		Email:             student.Email,
		Course:            student.Course,
		CertificateID:     certID,
		CertificateExists: h.generator.Exists(certID),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.writeEncodeError(w, r, err, "verify")
	}
}

// HandleVerifyManagement handles the management roster lookup endpoint.
func (h *CertificateHandlers) HandleVerifyManagement(w http.ResponseWriter, r *http.Request) {
	name, id, ok := h.lookupParams(w, r, "mgmt_id")
	if !ok {
		return
	}

	member, err := h.roster.FindMember(name, id)
	if err != nil {
		h.recorder.IncRosterLookup(false)
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.recorder.IncRosterLookup(true)

	certID := h.roster.ManagementCertificateID(member.MemberID)
	h.recordEvent(r, certID, issuance.EventVerified, member.Name)

	resp := &responses.VerifyResponse{
		Valid:             true,
		Name:              member.Name,
		MemberID:          member.MemberID,
		Email:             member.Email,
		Position:          member.Position,
		CertificateID:     certID,
		CertificateExists: h.generator.Exists(certID),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.writeEncodeError(w, r, err, "verify-management")
	}
}

// HandleCertificate handles the student certificate download endpoint. The
// certificate is rendered on first request and cached on disk; force=true
// re-renders it.
func (h *CertificateHandlers) HandleCertificate(w http.ResponseWriter, r *http.Request) {
	name, id, ok := h.lookupParams(w, r, "student_id")
	if !ok {
		return
	}

	student, err := h.roster.FindStudent(name, id)
	if err != nil {
		h.recorder.IncRosterLookup(false)
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.recorder.IncRosterLookup(true)

	certID := h.roster.CertificateID(student.StudentID)
	h.serveCertificate(w, r, metrics.KindStudent, student.Name, certID, func() (string, error) {
		return h.generator.Generate(student.Name, certID)
	})
}

// HandleCertificateManagement handles the management certificate download endpoint.
func (h *CertificateHandlers) HandleCertificateManagement(w http.ResponseWriter, r *http.Request) {
	name, id, ok := h.lookupParams(w, r, "mgmt_id")
	if !ok {
		return
	}

	member, err := h.roster.FindMember(name, id)
	if err != nil {
		h.recorder.IncRosterLookup(false)
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.recorder.IncRosterLookup(true)

	certID := h.roster.ManagementCertificateID(member.MemberID)
	h.serveCertificate(w, r, metrics.KindManagement, member.Name, certID, func() (string, error) {
		return h.generator.GenerateManagement(member.Name, certID)
	})
}

// HandleGenerateAll handles the admin-key-guarded student batch generation endpoint.
func (h *CertificateHandlers) HandleGenerateAll(w http.ResponseWriter, r *http.Request) {
	if !h.checkAdminKey(w, r) {
		return
	}

	students, err := h.roster.Students()
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	recipients := make([]certificate.Recipient, 0, len(students))
	for _, s := range students {
		recipients = append(recipients, certificate.Recipient{
			Name:          s.Name,
			CertificateID: h.roster.CertificateID(s.StudentID),
		})
	}
	h.runBatch(w, r, recipients, r.URL.Query().Get("force") == "true")
}

// HandleGenerateAllManagement handles the management batch generation endpoint.
func (h *CertificateHandlers) HandleGenerateAllManagement(w http.ResponseWriter, r *http.Request) {
	if !h.checkAdminKey(w, r) {
		return
	}

	members, err := h.roster.Management()
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	recipients := make([]certificate.Recipient, 0, len(members))
	for _, m := range members {
		recipients = append(recipients, certificate.Recipient{
			Name:          m.Name,
			CertificateID: h.roster.ManagementCertificateID(m.MemberID),
			Management:    true,
		})
	}
	h.runBatch(w, r, recipients, r.URL.Query().Get("force") == "true")
}

func (h *CertificateHandlers) serveCertificate(w http.ResponseWriter, r *http.Request, kind metrics.Kind, recipientName, certID string, render func() (string, error)) {
	force := r.URL.Query().Get("force") == "true"
	if force || !h.generator.Exists(certID) {
		start := time.Now()
		if _, err := render(); err != nil {
			h.recorder.ObserveRenderDuration(kind, time.Since(start), false)
			h.recorder.IncCertificateResult(kind, metrics.ResultFailed)
			h.errorAdapter.WriteErrorResponse(w, r, err)
			return
		}
		h.recorder.ObserveRenderDuration(kind, time.Since(start), true)
		h.recorder.IncCertificateResult(kind, metrics.ResultSuccess)
		h.recordEvent(r, certID, issuance.EventGenerated, recipientName)
	}

	h.recordEvent(r, certID, issuance.EventDownloaded, recipientName)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", certID+".pdf"))
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, h.generator.Path(certID))
}

func (h *CertificateHandlers) runBatch(w http.ResponseWriter, r *http.Request, recipients []certificate.Recipient, force bool) {
	summary := certificate.GenerateBatch(h.generator, recipients, force, certificate.BatchHooks{
		OnGenerated: func(rec certificate.Recipient) {
			h.recorder.IncCertificateResult(batchKind(rec), metrics.ResultSuccess)
			h.recordEvent(r, rec.CertificateID, issuance.EventGenerated, rec.Name)
		},
		OnSkipped: func(rec certificate.Recipient) {
			h.recorder.IncCertificateResult(batchKind(rec), metrics.ResultSkipped)
		},
		OnFailed: func(rec certificate.Recipient, err error) {
			h.recorder.IncCertificateResult(batchKind(rec), metrics.ResultFailed)
			slog.Warn("certificate generation failed",
				logfields.Name(rec.Name),
				logfields.CertificateID(rec.CertificateID),
				logfields.Error(err))
		},
	})

	resp := &responses.GenerateAllResponse{
		Status:       "ok",
		Total:        summary.Total,
		Generated:    summary.Generated,
		Skipped:      summary.Skipped,
		GeneratedIDs: summary.GeneratedIDs,
		SkippedIDs:   summary.SkippedIDs,
		FailedIDs:    summary.FailedIDs,
		Timestamp:    time.Now().UTC(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, resp); err != nil {
		h.writeEncodeError(w, r, err, "generate-all")
	}
}

// lookupParams validates the method and extracts the name and ID query
// parameters shared by the lookup endpoints.
func (h *CertificateHandlers) lookupParams(w http.ResponseWriter, r *http.Request, idParam string) (name, id string, ok bool) {
	if r.Method != http.MethodGet {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "GET")
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return "", "", false
	}

	q := r.URL.Query()
	name, id = q.Get("name"), q.Get(idParam)
	if name == "" || id == "" {
		err := errors.ValidationError("missing query parameters").
			WithContext("required", "name, "+idParam)
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return "", "", false
	}
	return name, id, true
}

// checkAdminKey enforces the admin key when one is configured. The key is
// accepted via the admin_key query parameter or the X-Admin-Key header.
func (h *CertificateHandlers) checkAdminKey(w http.ResponseWriter, r *http.Request) bool {
	if h.adminKey == "" {
		return true
	}
	key := r.URL.Query().Get("admin_key")
	if key == "" {
		key = r.Header.Get(AdminKeyHeader)
	}
	if key != h.adminKey {
		h.errorAdapter.WriteErrorResponse(w, r, errors.AdminKeyRejected())
		return false
	}
	return true
}

func (h *CertificateHandlers) recordEvent(r *http.Request, certID string, eventType issuance.EventType, recipientName string) {
	if _, err := h.log.Record(r.Context(), certID, eventType, map[string]string{"name": recipientName}); err != nil {
		slog.Warn("failed to record issuance event",
			logfields.CertificateID(certID),
			logfields.Error(err))
	}
	if h.publisher != nil {
		h.publisher.Publish(events.IssuanceEvent{
			CertificateID: certID,
			Type:          string(eventType),
			Recipient:     recipientName,
			Timestamp:     time.Now().UTC(),
		})
	}
}

func (h *CertificateHandlers) writeEncodeError(w http.ResponseWriter, r *http.Request, err error, endpoint string) {
	internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write "+endpoint+" response")
	h.errorAdapter.WriteErrorResponse(w, r, internalErr)
}

func batchKind(r certificate.Recipient) metrics.Kind {
	if r.Management {
		return metrics.KindManagement
	}
	return metrics.KindStudent
}
