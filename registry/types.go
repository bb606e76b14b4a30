package registry

import (
	v8shim "github.com/wippyai/v8-shim"
)

// Kind distinguishes the two template flavors stored in an arena.
type Kind uint8

const (
	KindFunction Kind = iota + 1
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Event types for template lifecycle notifications.
type EventType uint8

const (
	// EventRegistered fires when a template is inserted into the arena.
	EventRegistered EventType = iota
	// EventFrozen fires once, on the Configured -> Instantiated transition.
	EventFrozen
	// EventMaterialized fires every time an instance is created from the template.
	EventMaterialized
)

// Event represents a template lifecycle event.
type Event struct {
	Value  any
	Handle v8shim.Handle
	Kind   Kind
	Type   EventType
}

// Observer receives notifications about template lifecycle events.
type Observer interface {
	OnTemplateEvent(Event)
}
