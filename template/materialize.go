package template

import (
	"go.uber.org/zap"

	v8shim "github.com/wippyai/v8-shim"
	"github.com/wippyai/v8-shim/errors"
	"github.com/wippyai/v8-shim/fields"
)

// resolvedShape is the effective, instantiation-ready shape of a template
// after walking its constructor-linkage chain.
type resolvedShape struct {
	named      []NamedHandler
	indexed    []PropertyHandler
	objects    []*ObjectTemplate
	functions  []*FunctionTemplate
	fieldCount int
	depth      int
}

// NewInstance materializes a live instance of this template inside r.
//
// The algorithm: resolve the effective shape by walking the constructor
// linkage chain (bounded; exceeding the bound is a fatal cyclic-linkage
// error), derive the prototype from the realm, attach a zeroed internal
// field store of the resolved count, and only then register the instance
// with the collector — a failure anywhere earlier leaves nothing observable
// to it. Realm problems are returned as recoverable errors; no instance is
// produced and no template is frozen.
func (t *ObjectTemplate) NewInstance(r v8shim.Realm) (*Object, error) {
	if t.iso.disposed {
		errors.Throw(errors.Disposed(errors.PhaseMaterialize))
	}
	if r == nil {
		return nil, errors.RealmNotReady(uint32(t.handle), "nil realm")
	}
	if !r.IsInitialized() {
		return nil, errors.RealmNotReady(uint32(t.handle), "realm not initialized")
	}

	shape := t.resolveShape()

	proto, err := r.GlobalPrototypeFor(t.handle)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRealm, errors.KindRealmNotReady, err, "derive global prototype")
	}

	obj := &Object{
		iso:       t.iso,
		realm:     r,
		template:  t.handle,
		prototype: proto,
		store:     fields.NewStore(shape.fieldCount),
		named:     shape.named,
		indexed:   shape.indexed,
	}

	// Shape is now final for every template on the chain: the instance's
	// field layout depends on all of them.
	for _, ot := range shape.objects {
		ot.freeze()
	}
	for _, ft := range shape.functions {
		ft.freeze()
	}

	t.iso.arena.Materialized(t.handle)
	t.iso.collector.Register(obj)

	Logger().Debug("materialized instance",
		zap.Uint32("template", uint32(t.handle)),
		zap.Int("internal_fields", shape.fieldCount),
		zap.Int("named_handlers", len(shape.named)),
		zap.Int("chain_depth", shape.depth))

	return obj, nil
}

// resolveShape walks the constructor linkage chain from this template to its
// root ancestor. Object templates are collected leaf to root; the walk is
// bounded by the isolate's max linkage depth, so a cyclic Inherit graph fails
// fatally instead of looping.
//
// Field storage size tracks the most specific template that declared a count.
// Handler lists accumulate root to leaf; when the same name is registered at
// different levels the most specific level wins.
func (t *ObjectTemplate) resolveShape() resolvedShape {
	iso := t.iso

	shape := resolvedShape{
		objects: []*ObjectTemplate{t},
	}

	ftHandle := t.constructor
	for ftHandle != 0 {
		shape.depth++
		if shape.depth > iso.maxLinkageDepth {
			errors.Throw(errors.CyclicLinkage(uint32(t.handle), iso.maxLinkageDepth))
		}

		ft := iso.functionAt(ftHandle)
		shape.functions = append(shape.functions, ft)

		if ft.parent == 0 {
			break
		}
		parent := iso.functionAt(ft.parent)
		if parent.instance != 0 {
			shape.objects = append(shape.objects, iso.objectAt(parent.instance))
		}
		ftHandle = ft.parent
	}

	// Most specific declared count wins; templates between it and the leaf
	// inherit it unchanged.
	for _, ot := range shape.objects {
		if ot.fieldCountSet {
			shape.fieldCount = ot.fieldCount
			break
		}
	}

	shape.named, shape.indexed = mergeHandlers(shape.objects)
	return shape
}

// mergeHandlers flattens per-level handler registrations into the dispatch
// lists the interceptor dispatcher consumes. objects is ordered leaf to root.
// The final named list runs root to leaf, except that a name re-registered at
// a more specific level drops the ancestor's entry and keeps the specific one
// in the specific level's position. Registration order within a level is
// preserved.
func mergeHandlers(objects []*ObjectTemplate) ([]NamedHandler, []PropertyHandler) {
	var named []NamedHandler
	var indexed []PropertyHandler

	for i := len(objects) - 1; i >= 0; i-- {
		level := objects[i]

		if len(level.named) > 0 {
			shadowed := make(map[string]bool, len(level.named))
			for _, nh := range level.named {
				shadowed[nh.Name] = true
			}

			kept := named[:0]
			for _, nh := range named {
				if !shadowed[nh.Name] {
					kept = append(kept, nh)
				}
			}
			named = append(kept, level.named...)
		}

		indexed = append(indexed, level.indexed...)
	}

	return named, indexed
}
