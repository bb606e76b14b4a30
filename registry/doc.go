// Package registry provides the isolate-scoped template arena.
//
// Templates are owned by their isolate for its whole lifetime and referenced
// by stable integer handles rather than raw pointers, so constructor-linkage
// graphs are walked over indices and cycle detection stays a bounded walk.
//
// # Handle Arena
//
// The Arena maps handles to template descriptors:
//
//	arena := registry.NewArena()
//
//	// Insert a template, get a handle
//	handle, err := arena.Insert(registry.KindObject, tmpl)
//
//	// Retrieve by handle
//	value, ok := arena.Get(handle)
//
//	// Kind-checked retrieval
//	value, ok := arena.GetTyped(handle, registry.KindObject) // ok
//	value, ok := arena.GetTyped(handle, registry.KindFunction) // !ok
//
// Handles are never reused and entries are never removed; the arena is torn
// down as a whole when the isolate is disposed.
//
// # Freeze Tracking
//
// The arena records the one-way Configured -> Instantiated transition per
// template. Once Frozen returns true the template's shape is immutable.
//
// # Observers
//
// Register observers to track template lifecycle events:
//
//	arena.Subscribe(obs) // EventRegistered, EventFrozen, EventMaterialized
package registry
