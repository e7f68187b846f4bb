package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath          = "path"
	KeySource        = "source"
	KeyDest          = "dest"
	KeyStudentID     = "student_id"
	KeyCertificateID = "certificate_id"
	KeyTemplate      = "template"
	KeyDurationMS    = "duration_ms"
	KeyMethod        = "method"
	KeyStatus        = "status"
	KeyUserAgent     = "user_agent"
	KeyRemoteAddr    = "remote_addr"
	KeyRequestID     = "request_id"
	KeySubject       = "subject"
	KeyName          = "name"
	KeyURL           = "url"
	KeyError         = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func Source(p string) slog.Attr         { return slog.String(KeySource, p) }
func Dest(p string) slog.Attr           { return slog.String(KeyDest, p) }
func StudentID(id string) slog.Attr     { return slog.String(KeyStudentID, id) }
func CertificateID(id string) slog.Attr { return slog.String(KeyCertificateID, id) }
func Template(p string) slog.Attr       { return slog.String(KeyTemplate, p) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr         { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr         { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr     { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr     { return slog.String(KeyRemoteAddr, a) }
func RequestID(id string) slog.Attr     { return slog.String(KeyRequestID, id) }
func Subject(s string) slog.Attr        { return slog.String(KeySubject, s) }
func Name(n string) slog.Attr           { return slog.String(KeyName, n) }
func URL(u string) slog.Attr            { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
