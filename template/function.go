package template

import (
	v8shim "github.com/wippyai/v8-shim"
	"github.com/wippyai/v8-shim/errors"
	"github.com/wippyai/v8-shim/registry"
)

// FunctionTemplate describes a constructible function: the object template
// shaping its instances, an optional parent template providing the prototype
// chain, and the native callback invoked on construction.
type FunctionTemplate struct {
	iso      *Isolate
	callback ConstructorCallback
	handle   v8shim.Handle
	instance v8shim.Handle
	parent   v8shim.Handle
	state    templateState
}

// NewFunctionTemplate registers a new function template with the isolate.
// callback may be nil.
func NewFunctionTemplate(iso *Isolate, callback ConstructorCallback) *FunctionTemplate {
	t := &FunctionTemplate{iso: iso, callback: callback}
	t.handle = iso.register(registry.KindFunction, t)
	if callback != nil {
		t.state = stateConfigured
	}
	return t
}

// Handle returns the template's stable registry handle.
func (t *FunctionTemplate) Handle() v8shim.Handle {
	return t.handle
}

// Isolate returns the owning isolate.
func (t *FunctionTemplate) Isolate() *Isolate {
	return t.iso
}

// InstanceTemplate returns the object template shaping this function's
// instances, creating and linking one on first use. Creating it counts as a
// mutation: fatal if the function template is already instantiated without
// an instance template.
func (t *FunctionTemplate) InstanceTemplate() *ObjectTemplate {
	if t.instance != 0 {
		return t.iso.objectAt(t.instance)
	}
	t.mutable("InstanceTemplate")

	ot := NewObjectTemplate(t.iso, t)
	t.instance = ot.handle
	t.state = stateConfigured
	return ot
}

// LinkInstanceTemplate binds ot as this function's instance template. The
// association is one-directional and set at most once; reassignment is a
// fatal configuration error.
func (t *FunctionTemplate) LinkInstanceTemplate(ot *ObjectTemplate) {
	t.mutable("LinkInstanceTemplate")
	if ot == nil {
		errors.Throw(errors.New(errors.PhaseLink, errors.KindInvalidInput).
			Template(uint32(t.handle)).
			Detail("nil instance template").
			Fatal().
			Build())
	}
	if ot.iso != t.iso {
		errors.Throw(errors.CrossIsolate(uint32(t.handle)))
	}
	if t.instance != 0 {
		errors.Throw(errors.Relink(uint32(t.handle), "instance template"))
	}
	if ot.constructor != 0 && ot.constructor != t.handle {
		errors.Throw(errors.Relink(uint32(ot.handle), "constructor linkage"))
	}

	t.instance = ot.handle
	ot.constructor = t.handle
	t.state = stateConfigured
}

// HasInstanceTemplate reports whether an instance template is linked.
func (t *FunctionTemplate) HasInstanceTemplate() bool {
	return t.instance != 0
}

// Inherit sets parent as this function template's prototype provider.
// Inheritance must stay acyclic; cycles are caught by the bounded chain walk
// at materialization. Fatal after the first instantiation.
func (t *FunctionTemplate) Inherit(parent *FunctionTemplate) {
	t.mutable("Inherit")
	if parent == nil {
		errors.Throw(errors.New(errors.PhaseLink, errors.KindInvalidInput).
			Template(uint32(t.handle)).
			Detail("nil parent template").
			Fatal().
			Build())
	}
	if parent.iso != t.iso {
		errors.Throw(errors.CrossIsolate(uint32(t.handle)))
	}

	t.parent = parent.handle
	t.state = stateConfigured
}

// Parent returns the prototype-provider template, or nil.
func (t *FunctionTemplate) Parent() *FunctionTemplate {
	if t.parent == 0 {
		return nil
	}
	return t.iso.functionAt(t.parent)
}

// Instantiated reports whether the template has been frozen by a
// materialization.
func (t *FunctionTemplate) Instantiated() bool {
	return t.state == stateInstantiated
}

// NewInstance materializes an instance through this function's instance
// template, then invokes the construction callback on the live object.
func (t *FunctionTemplate) NewInstance(r v8shim.Realm) (*Object, error) {
	obj, err := t.InstanceTemplate().NewInstance(r)
	if err != nil {
		return nil, err
	}
	if t.callback != nil {
		t.callback(obj)
	}
	return obj, nil
}

func (t *FunctionTemplate) mutable(what string) {
	if t.iso.disposed {
		errors.Throw(errors.Disposed(errors.PhaseConfigure))
	}
	if t.state == stateInstantiated {
		errors.Throw(errors.LateMutation(uint32(t.handle), what))
	}
}

// freeze marks the Configured -> Instantiated transition.
func (t *FunctionTemplate) freeze() {
	if t.state == stateInstantiated {
		return
	}
	t.state = stateInstantiated
	t.iso.arena.Freeze(t.handle)
}
