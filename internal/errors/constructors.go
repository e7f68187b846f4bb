package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *CertDistError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *CertDistError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Publisher errors

// SourceMissing reports a publish source directory that does not exist.
// The resolved path is carried in context so callers can surface it verbatim.
func SourceMissing(path string) *CertDistError {
	return New(CategoryPublish, SeverityFatal, "source directory does not exist").
		WithContext("path", path)
}

// CopyFailed reports a failure while copying the source tree to the destination.
func CopyFailed(src, dst string, cause error) *CertDistError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "recursive copy failed").
		WithContext("source", src).
		WithContext("dest", dst)
}

// Roster errors

// RosterUnavailable reports a roster CSV file that cannot be read at all
// (distinct from an unknown student, which is a not-found condition).
func RosterUnavailable(path string, cause error) *CertDistError {
	return Wrap(cause, CategoryRoster, SeverityError, "roster file unavailable").
		WithContext("path", path)
}

func StudentNotFound(name, id string) *CertDistError {
	return NotFoundError("student not found").
		WithContext("name", name).
		WithContext("student_id", id)
}

func MemberNotFound(name, id string) *CertDistError {
	return NotFoundError("management member not found").
		WithContext("name", name).
		WithContext("mgmt_id", id)
}

// Render errors

func TemplateMissing(path string) *CertDistError {
	return New(CategoryRender, SeverityFatal, "certificate template not found").
		WithContext("path", path)
}

func FontMissing(path string) *CertDistError {
	return New(CategoryRender, SeverityFatal, "certificate font not found").
		WithContext("path", path)
}

func RenderFailed(certificateID string, cause error) *CertDistError {
	return Wrap(cause, CategoryRender, SeverityError, "certificate render failed").
		WithContext("certificate_id", certificateID)
}

// Auth errors

func AdminKeyRejected() *CertDistError {
	return New(CategoryAuth, SeverityWarning, "invalid admin key")
}
