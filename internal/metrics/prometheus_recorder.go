package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	httpRequests    *prom.CounterVec
	renderDuration  *prom.HistogramVec
	certResults     *prom.CounterVec
	publishDuration *prom.HistogramVec
	rosterLookups   *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "certdist",
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status code",
		}, []string{"path", "status"})
		pr.renderDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "certdist",
			Name:      "render_duration_seconds",
			Help:      "Duration of certificate PDF renders",
			Buckets:   prom.DefBuckets,
		}, []string{"kind", "result"})
		pr.certResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "certdist",
			Name:      "certificate_results_total",
			Help:      "Certificate generation outcomes by kind",
		}, []string{"kind", "result"})
		pr.publishDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "certdist",
			Name:      "publish_duration_seconds",
			Help:      "Duration of frontend publish operations",
			Buckets:   prom.DefBuckets,
		}, []string{"result"})
		pr.rosterLookups = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "certdist",
			Name:      "roster_lookups_total",
			Help:      "Roster lookups by hit/miss",
		}, []string{"result"})
		reg.MustRegister(pr.httpRequests, pr.renderDuration, pr.certResults, pr.publishDuration, pr.rosterLookups)
	})
	return pr
}

func (p *PrometheusRecorder) IncHTTPRequest(path string, status int) {
	if p == nil || p.httpRequests == nil {
		return
	}
	p.httpRequests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

func (p *PrometheusRecorder) ObserveRenderDuration(kind Kind, d time.Duration, success bool) {
	if p == nil || p.renderDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.renderDuration.WithLabelValues(string(kind), res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCertificateResult(kind Kind, result ResultLabel) {
	if p == nil || p.certResults == nil {
		return
	}
	p.certResults.WithLabelValues(string(kind), string(result)).Inc()
}

func (p *PrometheusRecorder) ObservePublishDuration(d time.Duration, success bool) {
	if p == nil || p.publishDuration == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.publishDuration.WithLabelValues(res).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRosterLookup(found bool) {
	if p == nil || p.rosterLookups == nil {
		return
	}
	res := "miss"
	if found {
		res = "hit"
	}
	p.rosterLookups.WithLabelValues(res).Inc()
}
