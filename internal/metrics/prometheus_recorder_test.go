package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveTransformDuration(150 * time.Millisecond)
	pr.IncResolveOutcome(ResolveFound)
	pr.IncResolveOutcome(ResolveNone)
	pr.AddInjectedTags(3)
	pr.IncHTTPRequest("/", 200)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveTransformDuration(time.Second)
	r.IncResolveOutcome(ResolveError)
	r.AddInjectedTags(1)
	r.IncHTTPRequest("/metrics", 200)
}
