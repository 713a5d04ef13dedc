package metrics

import "time"

// ResolveOutcome enumerates import map resolution outcomes for counters.
type ResolveOutcome string

const (
	ResolveFound ResolveOutcome = "found"
	ResolveNone  ResolveOutcome = "none"
	ResolveError ResolveOutcome = "error"
)

// Recorder defines observability hooks for resolution and injection metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveTransformDuration(d time.Duration)
	IncResolveOutcome(outcome ResolveOutcome)
	AddInjectedTags(n int)
	IncHTTPRequest(route string, status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveTransformDuration(time.Duration) {}
func (NoopRecorder) IncResolveOutcome(ResolveOutcome)       {}
func (NoopRecorder) AddInjectedTags(int)                    {}
func (NoopRecorder) IncHTTPRequest(string, int)             {}
