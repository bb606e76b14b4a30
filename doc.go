// Package v8shim provides the template subsystem of an embedder-API
// compatibility shim: native extensions written against a V8-style template
// API build engine-independent object descriptions here and materialize them
// into live instances inside a realm supplied by the host engine.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	v8shim/              Root package with the Realm, Collector and Prototype interfaces
//	├── template/        High-level API: isolates, function/object templates, instances
//	├── registry/        Handle-based template arena with lifecycle observers
//	├── fields/          Per-instance internal field storage (tagged opaque slots)
//	├── realm/           In-process Realm and Collector reference implementations
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Describe a shape once, stamp out instances per realm:
//
//	iso := template.NewIsolate()
//	defer iso.Dispose()
//
//	point := template.NewObjectTemplate(iso, nil)
//	point.SetInternalFieldCount(2)
//
//	r := realm.New()
//	obj, err := point.NewInstance(r)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	obj.SetInternalField(0, nativeState)
//
// # Templates and Instances
//
// A template is mutable until the first instance is materialized from it,
// then permanently immutable. Constructor linkage binds a FunctionTemplate to
// the ObjectTemplate its instances are shaped by, and FunctionTemplates may
// inherit from one another; the materializer resolves the whole chain when an
// instance is created.
//
// # Internal Fields
//
// Every instance owns a fixed-size array of native-only slots, invisible to
// script. Slot contents are opaque to the shim and to the collector unless a
// slot is explicitly marked GC-visible.
//
// # Error Model
//
// Configuration mistakes (mutating a template after first use, cyclic
// inheritance, bad field counts) and internal field index violations are
// native-code bugs: they panic with a structured *errors.Error marked Fatal.
// Realm errors (materializing into an uninitialized realm) are ordinary
// returned errors and may be retried once the realm is ready.
//
// # Thread Safety
//
// Isolates follow the conventional single-threaded embedding model: an
// isolate and everything created from it must only be touched by one
// goroutine at a time. Nothing in this subsystem blocks or suspends.
package v8shim
