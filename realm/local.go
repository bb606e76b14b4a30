package realm

import (
	v8shim "github.com/wippyai/v8-shim"
	"github.com/wippyai/v8-shim/errors"
)

// GlobalPrototype is the prototype handle a LocalRealm hands out. Identity is
// stable: one prototype per template per realm.
type GlobalPrototype struct {
	realm    *LocalRealm
	template v8shim.Handle
}

// Template returns the template the prototype was derived for.
func (p *GlobalPrototype) Template() v8shim.Handle {
	return p.template
}

// LocalRealm is an in-process Realm implementation. The production realm is
// owned by the host engine's context manager; this one exists so the template
// pipeline can run and be tested without a host engine, and backs the
// inspector tool.
type LocalRealm struct {
	prototypes  map[v8shim.Handle]*GlobalPrototype
	initialized bool
}

// New creates an initialized realm, ready to host instances.
func New() *LocalRealm {
	return &LocalRealm{
		prototypes:  make(map[v8shim.Handle]*GlobalPrototype),
		initialized: true,
	}
}

// NewUninitialized creates a realm that rejects materialization until
// Initialize is called.
func NewUninitialized() *LocalRealm {
	return &LocalRealm{
		prototypes: make(map[v8shim.Handle]*GlobalPrototype),
	}
}

// Initialize makes the realm ready to host instances.
func (r *LocalRealm) Initialize() {
	r.initialized = true
}

// Dispose tears the realm down. Materialization fails afterwards; prototypes
// already handed out stay valid for instances that hold them.
func (r *LocalRealm) Dispose() {
	r.initialized = false
}

// IsInitialized reports whether the realm can host instances.
func (r *LocalRealm) IsInitialized() bool {
	return r.initialized
}

// GlobalPrototypeFor returns the realm's prototype object for the template,
// creating it on first request.
func (r *LocalRealm) GlobalPrototypeFor(template v8shim.Handle) (v8shim.Prototype, error) {
	if !r.initialized {
		return nil, errors.RealmNotReady(uint32(template), "realm not initialized")
	}
	if template == 0 {
		return nil, errors.InvalidInput(errors.PhaseRealm, "invalid template handle")
	}

	p, ok := r.prototypes[template]
	if !ok {
		p = &GlobalPrototype{realm: r, template: template}
		r.prototypes[template] = p
	}
	return p, nil
}
