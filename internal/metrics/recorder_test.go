package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncHTTPRequest("/health", 200)
	r.ObserveRenderDuration(KindStudent, time.Second, true)
	r.IncCertificateResult(KindManagement, ResultSkipped)
	r.ObservePublishDuration(time.Millisecond, false)
	r.IncRosterLookup(true)
}

func TestPrometheusRecorderRegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncHTTPRequest("/certificate", 200)
	r.IncHTTPRequest("/certificate", 200)
	r.IncCertificateResult(KindStudent, ResultSuccess)
	r.ObserveRenderDuration(KindStudent, 50*time.Millisecond, true)
	r.ObservePublishDuration(time.Millisecond, true)
	r.IncRosterLookup(false)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]bool{}
	for _, f := range families {
		byName[f.GetName()] = true
	}
	assert.True(t, byName["certdist_http_requests_total"])
	assert.True(t, byName["certdist_certificate_results_total"])
	assert.True(t, byName["certdist_render_duration_seconds"])
	assert.True(t, byName["certdist_publish_duration_seconds"])
	assert.True(t, byName["certdist_roster_lookups_total"])
}

func TestNilPrometheusRecorderSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.IncHTTPRequest("/x", 500)
	r.ObserveRenderDuration(KindStudent, time.Second, false)
	r.IncCertificateResult(KindStudent, ResultFailed)
	r.ObservePublishDuration(time.Second, false)
	r.IncRosterLookup(true)
}
