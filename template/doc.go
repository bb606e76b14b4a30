// Package template provides the embedder-facing template API: isolates,
// function and object templates, constructor linkage and the instance
// materializer.
//
// # Quick Start
//
//	iso := template.NewIsolate(template.WithCollector(gc))
//	defer iso.Dispose()
//
//	ctor := template.NewFunctionTemplate(iso, func(obj *template.Object) {
//	    obj.SetInternalField(0, newNativeWrapper())
//	})
//	ctor.InstanceTemplate().SetInternalFieldCount(1)
//
//	obj, err := ctor.NewInstance(r)
//	if err != nil {
//	    // realm error: recoverable, retry once the realm is ready
//	}
//	wrapper := obj.GetInternalField(0)
//
// # Template Lifecycle
//
// Every template moves through an explicit three-state machine:
//
//	Unconfigured -> Configured -> Instantiated
//
// The last transition happens on the first materialization and freezes the
// whole constructor-linkage chain; any later mutation is a fatal
// configuration error, checked at every mutating entry point.
//
// # Shape Resolution
//
// Materialization walks the linkage chain from the template to its root
// ancestor. The walk is bounded (WithMaxLinkageDepth), so cyclic inheritance
// fails fatally rather than looping. Internal field storage is sized by the
// most specific template that declared a count; property handlers accumulate
// root to leaf with the most specific level winning on duplicate names.
package template
