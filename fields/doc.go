// Package fields implements per-instance internal field storage.
//
// An internal field is a native-code-only slot on an instance, unreachable
// from script-level property access. The store is created atomically with
// its instance, sized by the instance's template, and its size never changes
// afterward.
//
// Slots are tagged variants rather than raw pointers, so GC visibility is an
// explicit per-slot state instead of implicit pointer tagging:
//
//	empty       the initial sentinel
//	native      an opaque value the collector ignores
//	gc-visible  a handle the collector traces
//
// Out-of-range access indicates a native-code bug and is always fatal.
package fields
