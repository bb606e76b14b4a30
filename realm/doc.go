// Package realm provides in-process reference implementations of the two
// external collaborators the template pipeline consumes: the execution realm
// (LocalRealm) and the garbage collector (TrackingCollector).
//
// In production both live inside the host engine. The local implementations
// keep the subsystem runnable and testable standalone, the same way a handle
// table ships a local in-memory backend next to its Backend interface.
package realm
