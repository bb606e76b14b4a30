package template

import (
	v8shim "github.com/wippyai/v8-shim"
	"github.com/wippyai/v8-shim/errors"
	"github.com/wippyai/v8-shim/registry"
)

// MaxInternalFieldCount caps the internal field count a template may declare.
// Counts beyond this indicate a corrupted or hostile configuration.
const MaxInternalFieldCount = 1024

// ObjectTemplate describes the shape instances will have: internal field
// count, ordered property-handler registrations and the optional constructor
// linkage. It is mutable until the first instance is materialized from it
// (directly or through a descendant's chain), then permanently immutable.
type ObjectTemplate struct {
	iso           *Isolate
	named         []NamedHandler
	indexed       []PropertyHandler
	handle        v8shim.Handle
	constructor   v8shim.Handle
	fieldCount    int
	fieldCountSet bool
	state         templateState
}

// NewObjectTemplate registers a new object template with the isolate.
// constructor may be nil for a standalone template.
func NewObjectTemplate(iso *Isolate, constructor *FunctionTemplate) *ObjectTemplate {
	if constructor != nil && constructor.iso != iso {
		errors.Throw(errors.CrossIsolate(uint32(constructor.handle)))
	}

	t := &ObjectTemplate{iso: iso}
	t.handle = iso.register(registry.KindObject, t)

	if constructor != nil {
		t.constructor = constructor.handle
		t.state = stateConfigured
	}
	return t
}

// Handle returns the template's stable registry handle.
func (t *ObjectTemplate) Handle() v8shim.Handle {
	return t.handle
}

// Isolate returns the owning isolate.
func (t *ObjectTemplate) Isolate() *Isolate {
	return t.iso
}

// SetInternalFieldCount fixes the number of internal field slots instances of
// this template carry. Calling it after the first instantiation, or with a
// count outside [0, MaxInternalFieldCount], is a fatal configuration error.
func (t *ObjectTemplate) SetInternalFieldCount(n int) {
	t.mutable("SetInternalFieldCount")
	if n < 0 || n > MaxInternalFieldCount {
		errors.Throw(errors.InvalidFieldCount(uint32(t.handle), n, MaxInternalFieldCount))
	}
	t.fieldCount = n
	t.fieldCountSet = true
	t.state = stateConfigured
}

// InternalFieldCount returns the template's own declared count (0 if unset).
// The effective count of an instance also considers the linkage chain; see
// NewInstance.
func (t *ObjectTemplate) InternalFieldCount() int {
	return t.fieldCount
}

// HasInternalFieldCount reports whether the count was explicitly declared.
func (t *ObjectTemplate) HasInternalFieldCount() bool {
	return t.fieldCountSet
}

// SetNamedHandler appends a property handler for name. Handlers for the same
// name are dispatched in registration order by the external interceptor
// dispatcher. Fatal after the first instantiation.
func (t *ObjectTemplate) SetNamedHandler(name string, h PropertyHandler) {
	t.mutable("SetNamedHandler")
	t.named = append(t.named, NamedHandler{Name: name, Handler: h})
	t.state = stateConfigured
}

// SetIndexedHandler appends an indexed property handler. Fatal after the
// first instantiation.
func (t *ObjectTemplate) SetIndexedHandler(h PropertyHandler) {
	t.mutable("SetIndexedHandler")
	t.indexed = append(t.indexed, h)
	t.state = stateConfigured
}

// NamedHandlers returns a copy of the template's own named registrations in
// registration order.
func (t *ObjectTemplate) NamedHandlers() []NamedHandler {
	out := make([]NamedHandler, len(t.named))
	copy(out, t.named)
	return out
}

// IndexedHandlers returns a copy of the template's own indexed registrations.
func (t *ObjectTemplate) IndexedHandlers() []PropertyHandler {
	out := make([]PropertyHandler, len(t.indexed))
	copy(out, t.indexed)
	return out
}

// Constructor returns the linked function template, or nil.
func (t *ObjectTemplate) Constructor() *FunctionTemplate {
	if t.constructor == 0 {
		return nil
	}
	return t.iso.functionAt(t.constructor)
}

// Instantiated reports whether the template has been frozen by a
// materialization.
func (t *ObjectTemplate) Instantiated() bool {
	return t.state == stateInstantiated
}

func (t *ObjectTemplate) mutable(what string) {
	if t.iso.disposed {
		errors.Throw(errors.Disposed(errors.PhaseConfigure))
	}
	if t.state == stateInstantiated {
		errors.Throw(errors.LateMutation(uint32(t.handle), what))
	}
}

// freeze marks the Configured -> Instantiated transition.
func (t *ObjectTemplate) freeze() {
	if t.state == stateInstantiated {
		return
	}
	t.state = stateInstantiated
	t.iso.arena.Freeze(t.handle)
}
