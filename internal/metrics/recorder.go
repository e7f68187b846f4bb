package metrics

import "time"

// ResultLabel enumerates operation result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Kind labels the certificate variant.
type Kind string

const (
	KindStudent    Kind = "student"
	KindManagement Kind = "management"
)

// Recorder defines observability hooks for the distribution platform.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder (allowing optional injection).
type Recorder interface {
	IncHTTPRequest(path string, status int)
	ObserveRenderDuration(kind Kind, d time.Duration, success bool)
	IncCertificateResult(kind Kind, result ResultLabel)
	ObservePublishDuration(d time.Duration, success bool)
	IncRosterLookup(found bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncHTTPRequest(string, int)                        {}
func (NoopRecorder) ObserveRenderDuration(Kind, time.Duration, bool)   {}
func (NoopRecorder) IncCertificateResult(Kind, ResultLabel)            {}
func (NoopRecorder) ObservePublishDuration(time.Duration, bool)        {}
func (NoopRecorder) IncRosterLookup(bool)                              {}
