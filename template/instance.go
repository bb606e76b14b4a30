package template

import (
	"go.uber.org/zap"

	v8shim "github.com/wippyai/v8-shim"
	"github.com/wippyai/v8-shim/fields"
)

// Object is a live instance materialized from an ObjectTemplate inside one
// realm. It owns exactly one internal field store, sized by the resolved
// shape at materialization time, and carries the flattened handler lists the
// external interceptor dispatcher consumes.
type Object struct {
	iso       *Isolate
	realm     v8shim.Realm
	prototype v8shim.Prototype
	store     *fields.Store
	named     []NamedHandler
	indexed   []PropertyHandler
	template  v8shim.Handle
	finalized bool
}

// Template returns the handle of the template the object was materialized
// from. Implements v8shim.Traced.
func (o *Object) Template() v8shim.Handle {
	return o.template
}

// Realm returns the realm the object lives in.
func (o *Object) Realm() v8shim.Realm {
	return o.realm
}

// Prototype returns the realm-derived prototype handle.
func (o *Object) Prototype() v8shim.Prototype {
	return o.prototype
}

// InternalFieldCount returns the fixed number of internal field slots.
func (o *Object) InternalFieldCount() int {
	return o.store.Count()
}

// GetInternalField returns the value in slot index. Out-of-range access is a
// fatal programming error.
func (o *Object) GetInternalField(index int) any {
	return o.store.Get(index)
}

// SetInternalField stores an opaque native value in slot index, independent
// of any script-visible property. Out-of-range access is a fatal programming
// error.
func (o *Object) SetInternalField(index int, value any) {
	o.store.Set(index, value)
}

// InternalFieldSlotKind returns the tag of slot index.
func (o *Object) InternalFieldSlotKind(index int) fields.SlotKind {
	return o.store.SlotKind(index)
}

// InternalFieldIsEmpty reports whether slot index still holds the empty
// sentinel.
func (o *Object) InternalFieldIsEmpty(index int) bool {
	return o.store.IsEmpty(index)
}

// ClearInternalField resets slot index to the empty sentinel.
func (o *Object) ClearInternalField(index int) {
	o.store.Clear(index)
}

// MarkInternalFieldGCVisible tags slot index as holding a handle the
// collector must trace, and notifies the collector.
func (o *Object) MarkInternalFieldGCVisible(index int) {
	o.store.MarkGCVisible(index)
	o.iso.collector.MarkGCVisible(o, index)
}

// NamedHandlers returns the resolved named handler list for the interceptor
// dispatcher: registration order within a level, ancestors shadowed by more
// specific levels.
func (o *Object) NamedHandlers() []NamedHandler {
	out := make([]NamedHandler, len(o.named))
	copy(out, o.named)
	return out
}

// IndexedHandlers returns the resolved indexed handler list.
func (o *Object) IndexedHandlers() []PropertyHandler {
	out := make([]PropertyHandler, len(o.indexed))
	copy(out, o.indexed)
	return out
}

// LookupNamedHandler returns the first handler registered for name, walking
// the resolved list in dispatch order.
func (o *Object) LookupNamedHandler(name string) (PropertyHandler, bool) {
	for _, nh := range o.named {
		if nh.Name == name {
			return nh.Handler, true
		}
	}
	return PropertyHandler{}, false
}

// Finalized reports whether the object was already finalized.
func (o *Object) Finalized() bool {
	return o.finalized
}

// Finalize unregisters the object from the collector. The internal field
// store dies with the object. Idempotent.
func (o *Object) Finalize() {
	if o.finalized {
		return
	}
	o.finalized = true
	o.iso.collector.Unregister(o)

	Logger().Debug("finalized instance", zap.Uint32("template", uint32(o.template)))
}
