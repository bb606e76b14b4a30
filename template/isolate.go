package template

import (
	"go.uber.org/zap"

	v8shim "github.com/wippyai/v8-shim"
	"github.com/wippyai/v8-shim/errors"
	"github.com/wippyai/v8-shim/registry"
)

// DefaultMaxLinkageDepth bounds the constructor-linkage chain walk. Chains
// deeper than this are treated as cyclic and fail fatally.
const DefaultMaxLinkageDepth = 64

// Isolate owns the template registry and the collector hook for one logical
// execution thread. All templates and instances created from an isolate must
// be used from a single goroutine at a time.
type Isolate struct {
	arena           *registry.Arena
	collector       v8shim.Collector
	maxLinkageDepth int
	disposed        bool
}

// Option configures an Isolate.
type Option func(*Isolate)

// WithCollector installs the garbage-collection bookkeeping hook. Without it
// the isolate uses a no-op collector.
func WithCollector(c v8shim.Collector) Option {
	return func(iso *Isolate) {
		if c != nil {
			iso.collector = c
		}
	}
}

// WithMaxLinkageDepth overrides the constructor-linkage chain walk bound.
func WithMaxLinkageDepth(depth int) Option {
	return func(iso *Isolate) {
		if depth > 0 {
			iso.maxLinkageDepth = depth
		}
	}
}

// NewIsolate creates an isolate with an empty template registry.
func NewIsolate(opts ...Option) *Isolate {
	iso := &Isolate{
		arena:           registry.NewArena(),
		collector:       nopCollector{},
		maxLinkageDepth: DefaultMaxLinkageDepth,
	}
	for _, opt := range opts {
		opt(iso)
	}
	return iso
}

// Dispose tears down the isolate and its registry. Templates created from it
// must not be used afterwards.
func (iso *Isolate) Dispose() {
	if iso.disposed {
		return
	}
	iso.disposed = true
	templates := iso.arena.Len()
	_ = iso.arena.Close()

	Logger().Debug("isolate disposed", zap.Int("templates", templates))
}

// Registry exposes the isolate's template arena, primarily for observers and
// tooling.
func (iso *Isolate) Registry() *registry.Arena {
	return iso.arena
}

// TemplateCount returns the number of templates the isolate owns.
func (iso *Isolate) TemplateCount() int {
	return iso.arena.Len()
}

// Collector returns the isolate's GC bookkeeping hook.
func (iso *Isolate) Collector() v8shim.Collector {
	return iso.collector
}

// register inserts a template into the arena, failing fatally if the isolate
// is disposed.
func (iso *Isolate) register(kind registry.Kind, value any) v8shim.Handle {
	h, err := iso.arena.Insert(kind, value)
	if err != nil {
		errors.Throw(errors.Disposed(errors.PhaseConfigure))
	}
	return h
}

// functionAt resolves a function-template handle or fails fatally: a dangling
// handle inside a linkage chain is a corrupted-registry bug, not a data error.
func (iso *Isolate) functionAt(h v8shim.Handle) *FunctionTemplate {
	v, ok := iso.arena.GetTyped(h, registry.KindFunction)
	if !ok {
		errors.Throw(errors.New(errors.PhaseLink, errors.KindNotFound).
			Template(uint32(h)).
			Detail("function template missing from registry").
			Fatal().
			Build())
	}
	return v.(*FunctionTemplate)
}

// objectAt resolves an object-template handle or fails fatally.
func (iso *Isolate) objectAt(h v8shim.Handle) *ObjectTemplate {
	v, ok := iso.arena.GetTyped(h, registry.KindObject)
	if !ok {
		errors.Throw(errors.New(errors.PhaseLink, errors.KindNotFound).
			Template(uint32(h)).
			Detail("object template missing from registry").
			Fatal().
			Build())
	}
	return v.(*ObjectTemplate)
}

// nopCollector is the default GC hook when no collector is wired in.
type nopCollector struct{}

func (nopCollector) Register(v8shim.Traced)           {}
func (nopCollector) Unregister(v8shim.Traced)         {}
func (nopCollector) MarkGCVisible(v8shim.Traced, int) {}
