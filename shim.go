package v8shim

// Handle is a stable integer reference to a template owned by an isolate's
// registry. Handle 0 is reserved and always invalid.
type Handle uint32

// Prototype is an opaque handle to a realm-owned prototype object. The realm
// manager decides how prototype chains are built; this subsystem only carries
// the handle onto materialized instances.
type Prototype interface {
	// Template returns the template the prototype was derived for.
	Template() Handle
}

// Realm is an execution environment (global object + prototypes) supplied by
// the external context manager. Instances are materialized into exactly one
// realm.
type Realm interface {
	// IsInitialized reports whether the realm is ready to host instances.
	// Materialization against an uninitialized realm fails with a realm
	// error and has no observable side effects.
	IsInitialized() bool

	// GlobalPrototypeFor returns the realm's prototype object for instances
	// of the given template.
	GlobalPrototypeFor(template Handle) (Prototype, error)
}

// Traced is implemented by values the garbage collector tracks. Instances
// implement it; the collector never sees a value before its internal field
// store is attached.
type Traced interface {
	Template() Handle
}

// Collector receives garbage-collection bookkeeping calls from the
// materializer. Registration is scoped: Register is called once per
// successfully materialized instance, Unregister once on finalization.
// Implementations are supplied by the external collector.
type Collector interface {
	Register(instance Traced)
	Unregister(instance Traced)

	// MarkGCVisible tells the collector that the internal field slot at
	// index holds a handle it should trace. Slots are opaque to the
	// collector otherwise.
	MarkGCVisible(instance Traced, index int)
}
