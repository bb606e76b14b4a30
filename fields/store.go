package fields

import (
	"github.com/wippyai/v8-shim/errors"
)

// SlotKind tags what an internal field slot currently holds.
type SlotKind uint8

const (
	// SlotEmpty is the zero-value sentinel every slot starts as.
	SlotEmpty SlotKind = iota
	// SlotNative holds an opaque native value the collector ignores.
	SlotNative
	// SlotGCVisible holds a handle the collector has been told to trace.
	SlotGCVisible
)

func (k SlotKind) String() string {
	switch k {
	case SlotEmpty:
		return "empty"
	case SlotNative:
		return "native"
	case SlotGCVisible:
		return "gc-visible"
	default:
		return "unknown"
	}
}

// Slot is one internal field: a tagged opaque value. The zero value is the
// empty sentinel.
type Slot struct {
	value any
	kind  SlotKind
}

// Store is the fixed-size internal field array owned by exactly one instance.
// Slots are addressed by index in [0, Count()) and are invisible to script;
// only native code holding the instance reaches them.
//
// Out-of-range access is a native-code contract violation and panics with a
// fatal structured error. Reads and writes are plain O(1) operations with no
// locking or suspension points.
type Store struct {
	slots []Slot
}

// NewStore allocates a store with count slots, all set to the empty sentinel.
// A negative count is a fatal configuration error.
func NewStore(count int) *Store {
	if count < 0 {
		errors.Throw(errors.New(errors.PhaseConfigure, errors.KindInvalidFieldCount).
			Index(count).
			Detail("internal field store size must be non-negative").
			Build())
	}
	return &Store{
		slots: make([]Slot, count),
	}
}

// Count returns the fixed number of slots.
func (s *Store) Count() int {
	return len(s.slots)
}

// Get returns the value in slot index. Empty slots return nil.
func (s *Store) Get(index int) any {
	s.check(index)
	return s.slots[index].value
}

// Set stores an opaque native value in slot index. The store does not
// interpret or trace the value; a previously GC-visible slot reverts to a
// plain native slot until marked again.
func (s *Store) Set(index int, value any) {
	s.check(index)
	s.slots[index] = Slot{value: value, kind: SlotNative}
}

// SlotKind returns the tag of slot index.
func (s *Store) SlotKind(index int) SlotKind {
	s.check(index)
	return s.slots[index].kind
}

// IsEmpty reports whether slot index still holds the empty sentinel.
func (s *Store) IsEmpty(index int) bool {
	s.check(index)
	return s.slots[index].kind == SlotEmpty
}

// MarkGCVisible tags slot index as holding a handle the collector traces.
// The GC-visibility negotiation with the collector itself happens one layer
// up; the store only keeps the tag explicit.
func (s *Store) MarkGCVisible(index int) {
	s.check(index)
	s.slots[index].kind = SlotGCVisible
}

// Clear resets slot index to the empty sentinel.
func (s *Store) Clear(index int) {
	s.check(index)
	s.slots[index] = Slot{}
}

func (s *Store) check(index int) {
	if index < 0 || index >= len(s.slots) {
		errors.Throw(errors.OutOfRange(index, len(s.slots)))
	}
}
