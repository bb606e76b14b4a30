package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the template pipeline the error occurred
type Phase string

const (
	PhaseConfigure   Phase = "configure"   // descriptor building
	PhaseLink        Phase = "link"        // constructor linkage
	PhaseMaterialize Phase = "materialize" // instance creation
	PhaseField       Phase = "field"       // internal field access
	PhaseRealm       Phase = "realm"       // realm interaction
)

// Kind categorizes the error
type Kind string

const (
	KindLateMutation      Kind = "late_mutation"
	KindInvalidFieldCount Kind = "invalid_field_count"
	KindCyclicLinkage     Kind = "cyclic_linkage"
	KindRelink            Kind = "relink"
	KindCrossIsolate      Kind = "cross_isolate"
	KindOutOfRange        Kind = "out_of_range"
	KindRealmNotReady     Kind = "realm_not_ready"
	KindNotFound          Kind = "not_found"
	KindInvalidInput      Kind = "invalid_input"
	KindDisposed          Kind = "disposed"
)

// Error is the structured error type used throughout the shim.
//
// Fatal errors are native-code contract violations per the embedder API: the
// caller misused a template or an internal field index. They are raised by
// panicking (see Throw) and are never recoverable by retrying. Non-fatal
// errors (realm errors) are returned normally.
type Error struct {
	Cause    error
	Phase    Phase
	Kind     Kind
	Detail   string
	Template uint32 // registry handle of the offending template, 0 if none
	Index    int    // offending slot/depth value, -1 if not applicable
	Fatal    bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Fatal {
		b.WriteString("fatal ")
	}
	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Template != 0 {
		fmt.Fprintf(&b, " (template %d)", e.Template)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Throw raises a fatal error. Configuration and programming errors surface as
// panics carrying the structured error, so native-code bugs stop execution
// immediately instead of corrupting template or field state.
func Throw(e *Error) {
	e.Fatal = true
	panic(e)
}

// FromPanic extracts a structured error from a recovered panic value.
// Returns nil, false if the panic did not originate from Throw.
func FromPanic(r any) (*Error, bool) {
	e, ok := r.(*Error)
	return e, ok
}

// IsFatal reports whether err is a fatal shim error.
func IsFatal(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Fatal
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
			Index: -1,
		},
	}
}

// Template sets the offending template handle
func (b *Builder) Template(h uint32) *Builder {
	b.err.Template = h
	return b
}

// Index sets the offending index value
func (b *Builder) Index(i int) *Builder {
	b.err.Index = i
	return b
}

// Fatal marks the error as a native-code contract violation
func (b *Builder) Fatal() *Builder {
	b.err.Fatal = true
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// LateMutation reports a template mutation after its first instantiation.
func LateMutation(template uint32, what string) *Error {
	return &Error{
		Phase:    PhaseConfigure,
		Kind:     KindLateMutation,
		Template: template,
		Index:    -1,
		Detail:   fmt.Sprintf("%s after first instantiation", what),
		Fatal:    true,
	}
}

// InvalidFieldCount reports an internal field count outside [0, max].
func InvalidFieldCount(template uint32, n, max int) *Error {
	return &Error{
		Phase:    PhaseConfigure,
		Kind:     KindInvalidFieldCount,
		Template: template,
		Index:    n,
		Detail:   fmt.Sprintf("internal field count %d out of range [0, %d]", n, max),
		Fatal:    true,
	}
}

// CyclicLinkage reports a constructor linkage chain that exceeded the walk bound.
func CyclicLinkage(template uint32, depth int) *Error {
	return &Error{
		Phase:    PhaseLink,
		Kind:     KindCyclicLinkage,
		Template: template,
		Index:    depth,
		Detail:   fmt.Sprintf("linkage chain exceeded depth %d; inheritance must be acyclic", depth),
		Fatal:    true,
	}
}

// Relink reports a second assignment of a one-shot linkage.
func Relink(template uint32, what string) *Error {
	return &Error{
		Phase:    PhaseLink,
		Kind:     KindRelink,
		Template: template,
		Index:    -1,
		Detail:   fmt.Sprintf("%s is set at most once", what),
		Fatal:    true,
	}
}

// CrossIsolate reports linkage between templates of different isolates.
func CrossIsolate(template uint32) *Error {
	return &Error{
		Phase:    PhaseLink,
		Kind:     KindCrossIsolate,
		Template: template,
		Index:    -1,
		Detail:   "templates belong to different isolates",
		Fatal:    true,
	}
}

// OutOfRange reports an internal field index outside [0, count).
func OutOfRange(index, count int) *Error {
	return &Error{
		Phase:  PhaseField,
		Kind:   KindOutOfRange,
		Index:  index,
		Detail: fmt.Sprintf("internal field index %d out of range (count %d)", index, count),
		Fatal:  true,
	}
}

// RealmNotReady reports materialization against an unusable realm.
// Recoverable: the caller may retry once the realm is initialized.
func RealmNotReady(template uint32, detail string) *Error {
	return &Error{
		Phase:    PhaseRealm,
		Kind:     KindRealmNotReady,
		Template: template,
		Index:    -1,
		Detail:   detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, template uint32) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindNotFound,
		Template: template,
		Index:    -1,
		Detail:   fmt.Sprintf("%s not found", what),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Index:  -1,
		Detail: detail,
	}
}

// Disposed reports use of an isolate after Dispose.
func Disposed(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDisposed,
		Index:  -1,
		Detail: "isolate disposed",
		Fatal:  true,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Index:  -1,
		Detail: detail,
		Cause:  cause,
	}
}
