package registry

import (
	"errors"

	v8shim "github.com/wippyai/v8-shim"
)

var ErrClosed = errors.New("template arena closed")

// Arena is the isolate-scoped template store. Templates are addressed by
// stable integer handles and live until the isolate is disposed, so the
// arena is append-only: handles are never reused and entries are never
// dropped individually.
//
// The arena is not synchronized. An isolate is single-threaded by contract,
// so no two goroutines ever touch the same arena concurrently.
type Arena struct {
	entries   []entry
	observers []Observer
	closed    bool
}

type entry struct {
	value        any
	materialized uint64
	kind         Kind
	frozen       bool
}

// NewArena creates an empty template arena.
func NewArena() *Arena {
	return &Arena{
		entries: make([]entry, 0, 16),
	}
}

// Insert stores a template and returns its handle.
func (a *Arena) Insert(kind Kind, value any) (v8shim.Handle, error) {
	if a.closed {
		return 0, ErrClosed
	}

	a.entries = append(a.entries, entry{
		kind:  kind,
		value: value,
	})
	h := v8shim.Handle(len(a.entries))

	a.notify(Event{
		Type:   EventRegistered,
		Handle: h,
		Kind:   kind,
		Value:  value,
	})

	return h, nil
}

// Get retrieves a template by handle.
func (a *Arena) Get(handle v8shim.Handle) (any, bool) {
	e, ok := a.at(handle)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// GetTyped retrieves a template only if it matches the expected kind.
func (a *Arena) GetTyped(handle v8shim.Handle, kind Kind) (any, bool) {
	e, ok := a.at(handle)
	if !ok || e.kind != kind {
		return nil, false
	}
	return e.value, true
}

// Kind returns the kind for a handle.
func (a *Arena) Kind(handle v8shim.Handle) (Kind, bool) {
	e, ok := a.at(handle)
	if !ok {
		return 0, false
	}
	return e.kind, true
}

// Freeze records the Configured -> Instantiated transition for a template.
// Idempotent; the EventFrozen notification fires only on the transition.
func (a *Arena) Freeze(handle v8shim.Handle) bool {
	e, ok := a.at(handle)
	if !ok {
		return false
	}
	if e.frozen {
		return true
	}
	e.frozen = true

	a.notify(Event{
		Type:   EventFrozen,
		Handle: handle,
		Kind:   e.kind,
		Value:  e.value,
	})
	return true
}

// Frozen reports whether at least one instance has been materialized from
// the template (directly or through a descendant's linkage chain).
func (a *Arena) Frozen(handle v8shim.Handle) bool {
	e, ok := a.at(handle)
	return ok && e.frozen
}

// Materialized records one instance creation from the template.
func (a *Arena) Materialized(handle v8shim.Handle) {
	e, ok := a.at(handle)
	if !ok {
		return
	}
	e.materialized++

	a.notify(Event{
		Type:   EventMaterialized,
		Handle: handle,
		Kind:   e.kind,
		Value:  e.value,
	})
}

// Materializations returns how many instances were created from the template.
func (a *Arena) Materializations(handle v8shim.Handle) uint64 {
	e, ok := a.at(handle)
	if !ok {
		return 0
	}
	return e.materialized
}

// Len returns the number of registered templates.
func (a *Arena) Len() int {
	return len(a.entries)
}

// Each iterates over all templates in registration order.
func (a *Arena) Each(fn func(v8shim.Handle, Kind, any) bool) {
	for i := range a.entries {
		if !fn(v8shim.Handle(i+1), a.entries[i].kind, a.entries[i].value) {
			break
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (a *Arena) Subscribe(o Observer) {
	a.observers = append(a.observers, o)
}

// Unsubscribe removes an observer.
func (a *Arena) Unsubscribe(o Observer) {
	for i, obs := range a.observers {
		if obs == o {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			return
		}
	}
}

// Close releases all templates and stops accepting insertions.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.entries = nil
	a.observers = nil
	return nil
}

// Closed reports whether the arena has been closed.
func (a *Arena) Closed() bool {
	return a.closed
}

func (a *Arena) at(handle v8shim.Handle) (*entry, bool) {
	if handle == 0 || int(handle) > len(a.entries) {
		return nil, false
	}
	return &a.entries[handle-1], true
}

func (a *Arena) notify(e Event) {
	for _, o := range a.observers {
		o.OnTemplateEvent(e)
	}
}
