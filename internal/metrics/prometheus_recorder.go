package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	transformDuration prom.Histogram
	resolveOutcomes   *prom.CounterVec
	injectedTags      prom.Counter
	httpRequests      *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.transformDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "spaforge",
			Name:      "transform_duration_seconds",
			Help:      "Duration of HTML transform pipeline runs",
			Buckets:   prom.DefBuckets,
		})
		pr.resolveOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "spaforge",
			Name:      "importmap_resolve_total",
			Help:      "Import map resolution outcomes",
		}, []string{"outcome"})
		pr.injectedTags = prom.NewCounter(prom.CounterOpts{
			Namespace: "spaforge",
			Name:      "injected_tags_total",
			Help:      "Total tags injected into HTML documents",
		})
		pr.httpRequests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "spaforge",
			Name:      "http_requests_total",
			Help:      "Dev server requests by route and status",
		}, []string{"route", "status"})
		reg.MustRegister(pr.transformDuration, pr.resolveOutcomes, pr.injectedTags, pr.httpRequests)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveTransformDuration(d time.Duration) {
	pr.transformDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncResolveOutcome(outcome ResolveOutcome) {
	pr.resolveOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (pr *PrometheusRecorder) AddInjectedTags(n int) {
	pr.injectedTags.Add(float64(n))
}

func (pr *PrometheusRecorder) IncHTTPRequest(route string, status int) {
	pr.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
