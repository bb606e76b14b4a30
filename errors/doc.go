// Package errors provides structured error types for the v8-shim library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category), and carry the offending template handle and index where known.
//
// The embedder API distinguishes two failure classes. Configuration and
// programming errors (late template mutation, cyclic linkage, out-of-range
// internal field access) are native-code bugs: they are marked Fatal and
// raised via Throw, which panics with the structured error. Realm errors are
// ordinary returned errors the caller may recover from.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConfigure, errors.KindInvalidFieldCount).
//		Template(h).
//		Index(n).
//		Detail("internal field count %d exceeds limit", n).
//		Fatal().
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	errors.Throw(errors.LateMutation(h, "SetInternalFieldCount"))
//	err := errors.RealmNotReady(h, "realm not initialized")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
