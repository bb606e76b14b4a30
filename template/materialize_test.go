package template

import (
	"testing"

	"github.com/wippyai/v8-shim/errors"
	"github.com/wippyai/v8-shim/fields"
	"github.com/wippyai/v8-shim/realm"
)

func TestNewInstance_FieldSlots(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	ot := NewObjectTemplate(iso, nil)
	ot.SetInternalFieldCount(4)

	obj, err := ot.NewInstance(r)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}

	if obj.InternalFieldCount() != 4 {
		t.Fatalf("InternalFieldCount = %d, want 4", obj.InternalFieldCount())
	}
	for i := 0; i < 4; i++ {
		if !obj.InternalFieldIsEmpty(i) {
			t.Fatalf("slot %d not initialized to the empty sentinel", i)
		}
	}
}

func TestNewInstance_FieldRoundTrip(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	ot := NewObjectTemplate(iso, nil)
	ot.SetInternalFieldCount(2)
	obj, err := ot.NewInstance(r)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}

	type wrapper struct{ id int }
	w := &wrapper{id: 42}
	obj.SetInternalField(0, w)
	obj.SetInternalField(1, "opaque")

	if obj.GetInternalField(0) != w {
		t.Fatal("slot 0 round-trip failed")
	}
	if obj.GetInternalField(1) != "opaque" {
		t.Fatal("slot 1 round-trip failed")
	}

	expectFatal(t, errors.KindOutOfRange, func() { obj.GetInternalField(2) })
	expectFatal(t, errors.KindOutOfRange, func() { obj.SetInternalField(-1, "v") })
}

func TestNewInstance_NoFieldAliasing(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	ot := NewObjectTemplate(iso, nil)
	ot.SetInternalFieldCount(2)

	a, err := ot.NewInstance(r)
	if err != nil {
		t.Fatalf("first NewInstance failed: %v", err)
	}
	b, err := ot.NewInstance(r)
	if err != nil {
		t.Fatalf("second NewInstance failed: %v", err)
	}
	if a == b {
		t.Fatal("expected two distinct instances")
	}

	a.SetInternalField(0, "from-a")
	if !b.InternalFieldIsEmpty(0) {
		t.Fatal("Set on instance a is visible on instance b")
	}
	b.SetInternalField(0, "from-b")
	if a.GetInternalField(0) != "from-a" {
		t.Fatal("instances alias the same field store")
	}

	if iso.Registry().Materializations(ot.Handle()) != 2 {
		t.Fatalf("Materializations = %d, want 2", iso.Registry().Materializations(ot.Handle()))
	}
}

func TestNewInstance_UninitializedRealm(t *testing.T) {
	gc := realm.NewTrackingCollector()
	iso := NewIsolate(WithCollector(gc))
	defer iso.Dispose()

	ot := NewObjectTemplate(iso, nil)
	ot.SetInternalFieldCount(1)

	r := realm.NewUninitialized()
	obj, err := ot.NewInstance(r)
	if err == nil {
		t.Fatal("expected realm error")
	}
	if obj != nil {
		t.Fatal("no instance may be produced on realm error")
	}
	if errors.IsFatal(err) {
		t.Fatal("realm errors must be recoverable")
	}
	if gc.Live() != 0 {
		t.Fatalf("collector saw %d instances despite failed materialization", gc.Live())
	}
	if ot.Instantiated() {
		t.Fatal("failed materialization froze the template")
	}

	// Recoverable: retry once the realm is ready.
	r.Initialize()
	if _, err := ot.NewInstance(r); err != nil {
		t.Fatalf("retry after Initialize failed: %v", err)
	}
	if gc.Live() != 1 {
		t.Fatalf("Live = %d after successful retry, want 1", gc.Live())
	}
}

func TestNewInstance_NilRealm(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	ot := NewObjectTemplate(iso, nil)

	if _, err := ot.NewInstance(nil); err == nil {
		t.Fatal("expected realm error for nil realm")
	}
}

func TestNewInstance_Prototype(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	ot := NewObjectTemplate(iso, nil)
	a, _ := ot.NewInstance(r)
	b, _ := ot.NewInstance(r)

	if a.Prototype() == nil {
		t.Fatal("instance has no prototype")
	}
	if a.Prototype() != b.Prototype() {
		t.Fatal("instances of one template in one realm must share a prototype")
	}
	if a.Prototype().Template() != ot.Handle() {
		t.Fatalf("prototype derived for template %d, want %d", a.Prototype().Template(), ot.Handle())
	}
	if a.Realm() != r {
		t.Fatal("instance bound to wrong realm")
	}
}

func TestNewInstance_CollectorScope(t *testing.T) {
	gc := realm.NewTrackingCollector()
	iso := NewIsolate(WithCollector(gc))
	defer iso.Dispose()
	r := realm.New()

	ot := NewObjectTemplate(iso, nil)
	ot.SetInternalFieldCount(1)

	obj, err := ot.NewInstance(r)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	if !gc.Registered(obj) {
		t.Fatal("materialized instance not registered with the collector")
	}
	if gc.Registrations(obj) != 1 {
		t.Fatalf("Registrations = %d, want 1", gc.Registrations(obj))
	}

	obj.Finalize()
	if gc.Registered(obj) {
		t.Fatal("finalized instance still registered")
	}
	if !obj.Finalized() {
		t.Fatal("Finalized not reported")
	}

	// Idempotent: the register/unregister pair stays balanced.
	obj.Finalize()
	if gc.Unregistrations(obj) != 1 {
		t.Fatalf("Unregistrations = %d, want 1", gc.Unregistrations(obj))
	}
}

func TestNewInstance_GCVisibleSlot(t *testing.T) {
	gc := realm.NewTrackingCollector()
	iso := NewIsolate(WithCollector(gc))
	defer iso.Dispose()
	r := realm.New()

	ot := NewObjectTemplate(iso, nil)
	ot.SetInternalFieldCount(3)
	obj, _ := ot.NewInstance(r)

	obj.SetInternalField(1, "traced-handle")
	obj.MarkInternalFieldGCVisible(1)

	if obj.InternalFieldSlotKind(1) != fields.SlotGCVisible {
		t.Fatalf("slot kind = %s, want gc-visible", obj.InternalFieldSlotKind(1))
	}
	visible := gc.GCVisible(obj)
	if len(visible) != 1 || visible[0] != 1 {
		t.Fatalf("collector visibility = %v, want [1]", visible)
	}
}

func TestNewInstance_InheritedFieldCount(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	base := NewFunctionTemplate(iso, nil)
	base.InstanceTemplate().SetInternalFieldCount(3)

	child := NewFunctionTemplate(iso, nil)
	child.Inherit(base)

	// Child declares no count of its own: the most specific declared count
	// on the chain (the parent's 3) applies.
	obj, err := child.NewInstance(r)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	if obj.InternalFieldCount() != 3 {
		t.Fatalf("InternalFieldCount = %d, want inherited 3", obj.InternalFieldCount())
	}
}

func TestNewInstance_LeafCountWins(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	base := NewFunctionTemplate(iso, nil)
	base.InstanceTemplate().SetInternalFieldCount(3)

	child := NewFunctionTemplate(iso, nil)
	child.Inherit(base)
	child.InstanceTemplate().SetInternalFieldCount(1)

	obj, err := child.NewInstance(r)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	if obj.InternalFieldCount() != 1 {
		t.Fatalf("InternalFieldCount = %d, want leaf's 1", obj.InternalFieldCount())
	}

	// The parent's own instances keep the parent's count.
	pobj, err := base.NewInstance(r)
	if err != nil {
		t.Fatalf("parent NewInstance failed: %v", err)
	}
	if pobj.InternalFieldCount() != 3 {
		t.Fatalf("parent instance count = %d, want 3", pobj.InternalFieldCount())
	}
}

func TestNewInstance_ChainFreeze(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	base := NewFunctionTemplate(iso, nil)
	base.InstanceTemplate().SetInternalFieldCount(3)

	child := NewFunctionTemplate(iso, nil)
	child.Inherit(base)

	pobj, err := base.NewInstance(r)
	if err != nil {
		t.Fatalf("parent NewInstance failed: %v", err)
	}

	if _, err := child.NewInstance(r); err != nil {
		t.Fatalf("child NewInstance failed: %v", err)
	}

	// Child's layout depends on the parent: the whole chain is frozen.
	if !base.Instantiated() || !base.InstanceTemplate().Instantiated() {
		t.Fatal("ancestor templates not frozen by descendant instantiation")
	}

	// Mutating the child's shape after its first instantiation is fatal and
	// leaves the parent's instances untouched.
	expectFatal(t, errors.KindLateMutation, func() {
		child.InstanceTemplate().SetInternalFieldCount(1)
	})
	if pobj.InternalFieldCount() != 3 {
		t.Fatalf("parent instance count = %d after rejected mutation, want 3", pobj.InternalFieldCount())
	}
}

func TestNewInstance_HandlerAccumulation(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	rootGetter := func(obj *Object, key string) (any, bool) { return "root", true }
	leafGetter := func(obj *Object, key string) (any, bool) { return "leaf", true }

	base := NewFunctionTemplate(iso, nil)
	bt := base.InstanceTemplate()
	bt.SetNamedHandler("shared", PropertyHandler{Getter: rootGetter})
	bt.SetNamedHandler("rootOnly", PropertyHandler{Getter: rootGetter})
	bt.SetIndexedHandler(PropertyHandler{Getter: rootGetter})

	child := NewFunctionTemplate(iso, nil)
	child.Inherit(base)
	ct := child.InstanceTemplate()
	ct.SetNamedHandler("shared", PropertyHandler{Getter: leafGetter})
	ct.SetNamedHandler("leafOnly", PropertyHandler{Getter: leafGetter})
	ct.SetIndexedHandler(PropertyHandler{Getter: leafGetter})

	obj, err := child.NewInstance(r)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}

	named := obj.NamedHandlers()
	if len(named) != 3 {
		t.Fatalf("named handlers = %d, want 3 (duplicate shadowed)", len(named))
	}
	// Root level first minus shadowed names, then the leaf's registrations.
	if named[0].Name != "rootOnly" || named[1].Name != "shared" || named[2].Name != "leafOnly" {
		t.Fatalf("handler order = [%s %s %s]", named[0].Name, named[1].Name, named[2].Name)
	}

	h, ok := obj.LookupNamedHandler("shared")
	if !ok {
		t.Fatal("shared handler not resolved")
	}
	if v, _ := h.Getter(obj, "shared"); v != "leaf" {
		t.Fatalf("duplicate name resolved to %v, want the leaf's handler", v)
	}

	if _, ok := obj.LookupNamedHandler("missing"); ok {
		t.Fatal("lookup of unregistered name succeeded")
	}

	if len(obj.IndexedHandlers()) != 2 {
		t.Fatalf("indexed handlers = %d, want 2", len(obj.IndexedHandlers()))
	}
}

func TestNewInstance_CyclicLinkageFatal(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	a := NewFunctionTemplate(iso, nil)
	b := NewFunctionTemplate(iso, nil)
	at := a.InstanceTemplate()
	b.InstanceTemplate()

	a.Inherit(b)
	b.Inherit(a)

	expectFatal(t, errors.KindCyclicLinkage, func() { at.NewInstance(r) })
}

func TestNewInstance_DeepChainWithinBound(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	root := NewFunctionTemplate(iso, nil)
	root.InstanceTemplate().SetInternalFieldCount(2)

	leaf := root
	for i := 0; i < 10; i++ {
		next := NewFunctionTemplate(iso, nil)
		next.Inherit(leaf)
		leaf = next
	}

	obj, err := leaf.NewInstance(r)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	if obj.InternalFieldCount() != 2 {
		t.Fatalf("InternalFieldCount = %d, want root's 2", obj.InternalFieldCount())
	}
}

func TestNewInstance_LinkageDepthOption(t *testing.T) {
	iso := NewIsolate(WithMaxLinkageDepth(3))
	defer iso.Dispose()
	r := realm.New()

	root := NewFunctionTemplate(iso, nil)
	leaf := root
	for i := 0; i < 5; i++ {
		next := NewFunctionTemplate(iso, nil)
		next.Inherit(leaf)
		leaf = next
	}

	expectFatal(t, errors.KindCyclicLinkage, func() { leaf.InstanceTemplate().NewInstance(r) })
}

func TestFunctionTemplate_ConstructorCallback(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	var constructed *Object
	ft := NewFunctionTemplate(iso, func(obj *Object) {
		constructed = obj
		obj.SetInternalField(0, "wrapped")
	})
	ft.InstanceTemplate().SetInternalFieldCount(1)

	obj, err := ft.NewInstance(r)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	if constructed != obj {
		t.Fatal("construction callback did not receive the new instance")
	}
	if obj.GetInternalField(0) != "wrapped" {
		t.Fatal("callback mutation lost")
	}
}

func TestFunctionTemplate_CallbackNotRunOnRealmError(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()

	called := false
	ft := NewFunctionTemplate(iso, func(obj *Object) { called = true })
	ft.InstanceTemplate()

	if _, err := ft.NewInstance(realm.NewUninitialized()); err == nil {
		t.Fatal("expected realm error")
	}
	if called {
		t.Fatal("construction callback ran for a failed materialization")
	}
}

func TestObject_TemplateHandle(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	ot := NewObjectTemplate(iso, nil)
	obj, _ := ot.NewInstance(r)

	if obj.Template() != ot.Handle() {
		t.Fatalf("Template() = %d, want %d", obj.Template(), ot.Handle())
	}
}

func TestNewInstance_ZeroFieldDefault(t *testing.T) {
	iso := NewIsolate()
	defer iso.Dispose()
	r := realm.New()

	ot := NewObjectTemplate(iso, nil)
	obj, err := ot.NewInstance(r)
	if err != nil {
		t.Fatalf("NewInstance failed: %v", err)
	}
	if obj.InternalFieldCount() != 0 {
		t.Fatalf("default field count = %d, want 0", obj.InternalFieldCount())
	}
	expectFatal(t, errors.KindOutOfRange, func() { obj.GetInternalField(0) })
}
