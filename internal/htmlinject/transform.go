package htmlinject

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/spaforge/internal/config"
	serrors "git.home.luguber.info/inful/spaforge/internal/errors"
	"git.home.luguber.info/inful/spaforge/internal/importmap"
	"git.home.luguber.info/inful/spaforge/internal/metrics"
	"git.home.luguber.info/inful/spaforge/internal/observability"
)

// Stage represents when a transform should be applied.
type Stage string

const (
	// StagePre: applied before ordinary transforms
	StagePre Stage = "pre"

	// StageNormal: default ordering
	StageNormal Stage = "normal"

	// StagePost: applied strictly after all other transforms, so injected
	// content cannot be overridden by earlier ones
	StagePost Stage = "post"
)

// stageRank orders stages for registry execution.
func stageRank(s Stage) int {
	switch s {
	case StagePre:
		return 0
	case StagePost:
		return 2
	default:
		return 1
	}
}

// Context is the per-document transform input. Transforms may also write
// results back into it for the host to inspect after Apply.
type Context struct {
	// Document identifies the HTML page being transformed.
	Document string

	// Env is the host invocation environment.
	Env config.Environment

	// Resolved reports the import map resolution outcome. Set by the root
	// injector; nil when no injector ran.
	Resolved *ResolveResult
}

// ResolveResult describes how the import map resolution turned out for one
// transform run.
type ResolveResult struct {
	Outcome metrics.ResolveOutcome
	Path    string
	Type    config.MapType
}

// Transform produces tags for an HTML document.
type Transform interface {
	// Name identifies the transform in logs and errors.
	Name() string

	// Stage returns when this transform should be applied.
	Stage() Stage

	// Apply returns the tags to inject, in order. An empty slice means
	// nothing applies to this document.
	Apply(ctx context.Context, tctx *Context) ([]Tag, error)
}

// Registry manages transform registration and ordered execution.
type Registry struct {
	transforms []Transform
}

// NewRegistry creates an empty transform registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a transform to the registry.
func (r *Registry) Register(t Transform) error {
	if t == nil {
		return fmt.Errorf("cannot register nil transform")
	}
	if t.Name() == "" {
		return fmt.Errorf("transform name is required")
	}
	r.transforms = append(r.transforms, t)
	return nil
}

// List returns all registered transforms.
func (r *Registry) List() []Transform {
	return r.transforms
}

// Apply runs every registered transform against the document, pre stage
// first, post stage last, registration order within a stage. Tag sequences
// are concatenated; a transform error aborts the run for this document.
func (r *Registry) Apply(ctx context.Context, tctx *Context) ([]Tag, error) {
	var tags []Tag
	for _, stage := range []Stage{StagePre, StageNormal, StagePost} {
		for _, t := range r.transforms {
			if stageRank(t.Stage()) != stageRank(stage) {
				continue
			}
			produced, err := t.Apply(ctx, tctx)
			if err != nil {
				return nil, serrors.TransformFailed(tctx.Document, err).
					WithContext("transform", t.Name())
			}
			tags = append(tags, produced...)
		}
	}
	return tags, nil
}

// RootTransform is the single-spa root application injector: import map
// script, overrides runtime, overrides UI, in that order. It suspends only at
// the injected file-resolution calls and holds no state across invocations.
type RootTransform struct {
	opts     *config.RootOptions
	files    importmap.FileResolver
	recorder metrics.Recorder
}

// NewRootTransform creates the root injector. recorder may be nil.
func NewRootTransform(opts *config.RootOptions, files importmap.FileResolver, recorder metrics.Recorder) *RootTransform {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &RootTransform{opts: opts, files: files, recorder: recorder}
}

// Name identifies the transform.
func (t *RootTransform) Name() string { return "single-spa-root-injector" }

// Stage is always post: injected content must land after every other
// transform, for every command.
func (t *RootTransform) Stage() Stage { return StagePost }

// Apply resolves the import map and produces the ordered tag sequence. A
// resolution miss yields zero tags; a read failure after a positive existence
// check propagates unmasked.
func (t *RootTransform) Apply(ctx context.Context, tctx *Context) ([]Tag, error) {
	start := time.Now()
	defer func() { t.recorder.ObserveTransformDuration(time.Since(start)) }()

	var mapsOpts *config.ImportMapsOptions
	if t.opts != nil {
		mapsOpts = t.opts.ImportMaps
	}

	src, err := importmap.ResolveSource(ctx, mapsOpts, tctx.Env, t.files)
	if err != nil {
		t.recorder.IncResolveOutcome(metrics.ResolveError)
		tctx.Resolved = &ResolveResult{Outcome: metrics.ResolveError}
		return nil, err
	}
	if src == nil {
		t.recorder.IncResolveOutcome(metrics.ResolveNone)
		tctx.Resolved = &ResolveResult{Outcome: metrics.ResolveNone}
		observability.DebugContext(ctx, "no import map found, skipping injection")
		return nil, nil
	}
	t.recorder.IncResolveOutcome(metrics.ResolveFound)
	tctx.Resolved = &ResolveResult{Outcome: metrics.ResolveFound, Path: src.Path, Type: src.Type}

	// the map body is injected verbatim, but a malformed document is worth
	// flagging before the browser chokes on it
	if _, perr := importmap.Parse(src.Path, src.Content); perr != nil {
		observability.WarnContext(ctx, "import map is not valid JSON",
			slog.String("path", src.Path), slog.String("error", perr.Error()))
	}

	tags := []Tag{MapTag(src)}
	tags = append(tags, ImoTags(t.opts, true)...)
	t.recorder.AddInjectedTags(len(tags))

	return tags, nil
}

// NewPipeline builds the transform registry for the given application
// options. Only root applications register the injector; a mife pipeline is
// empty and yields zero tags for every document.
func NewPipeline(opts config.AppOptions, files importmap.FileResolver, recorder metrics.Recorder) (*Registry, error) {
	registry := NewRegistry()
	if opts.Type == config.AppTypeRoot {
		if err := registry.Register(NewRootTransform(opts.Root, files, recorder)); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
