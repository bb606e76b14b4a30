package template

// templateState is the explicit three-state lifecycle every template moves
// through. Transitions only go forward; Instantiated is terminal and makes
// the template immutable.
type templateState uint8

const (
	stateUnconfigured templateState = iota
	stateConfigured
	stateInstantiated
)

func (s templateState) String() string {
	switch s {
	case stateUnconfigured:
		return "unconfigured"
	case stateConfigured:
		return "configured"
	case stateInstantiated:
		return "instantiated"
	default:
		return "unknown"
	}
}

// PropertyHandler holds the native callbacks the external interceptor
// dispatcher invokes for a property pattern. This subsystem only records
// registrations and their order; dispatch happens outside it.
type PropertyHandler struct {
	Getter func(obj *Object, key string) (any, bool)
	Setter func(obj *Object, key string, value any) bool
}

// NamedHandler is a property handler registered for a specific name.
type NamedHandler struct {
	Name    string
	Handler PropertyHandler
}

// ConstructorCallback is the native callback a FunctionTemplate invokes on
// construction, after the instance is fully materialized and registered.
type ConstructorCallback func(obj *Object)
