package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	v8shim "github.com/wippyai/v8-shim"
	"github.com/wippyai/v8-shim/realm"
	"github.com/wippyai/v8-shim/registry"
	"github.com/wippyai/v8-shim/template"
)

func main() {
	var (
		list        = flag.Bool("list", false, "List registered templates and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		template.SetLogger(logger)
	}

	if *interactive {
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// demo is a small template hierarchy standing in for what a native extension
// would register: a base handle wrapper, a derived file wrapper and a
// standalone config shape.
type demo struct {
	iso    *template.Isolate
	gc     *realm.TrackingCollector
	names  map[v8shim.Handle]string
	handle *template.FunctionTemplate
	file   *template.FunctionTemplate
	config *template.ObjectTemplate
}

func buildDemo() *demo {
	gc := realm.NewTrackingCollector()
	iso := template.NewIsolate(template.WithCollector(gc))

	d := &demo{
		iso:   iso,
		gc:    gc,
		names: make(map[v8shim.Handle]string),
	}

	d.handle = template.NewFunctionTemplate(iso, nil)
	ht := d.handle.InstanceTemplate()
	ht.SetInternalFieldCount(1)
	ht.SetNamedHandler("type", template.PropertyHandler{
		Getter: func(obj *template.Object, key string) (any, bool) { return "handle", true },
	})
	d.names[d.handle.Handle()] = "Handle"
	d.names[ht.Handle()] = "Handle.instance"

	d.file = template.NewFunctionTemplate(iso, func(obj *template.Object) {
		obj.SetInternalField(0, "fd:-1")
	})
	d.file.Inherit(d.handle)
	ft := d.file.InstanceTemplate()
	ft.SetInternalFieldCount(2)
	ft.SetNamedHandler("type", template.PropertyHandler{
		Getter: func(obj *template.Object, key string) (any, bool) { return "file", true },
	})
	ft.SetNamedHandler("path", template.PropertyHandler{
		Getter: func(obj *template.Object, key string) (any, bool) { return obj.GetInternalField(1), true },
	})
	d.names[d.file.Handle()] = "File"
	d.names[ft.Handle()] = "File.instance"

	d.config = template.NewObjectTemplate(iso, nil)
	d.config.SetInternalFieldCount(1)
	d.names[d.config.Handle()] = "Config"

	return d
}

func (d *demo) name(h v8shim.Handle) string {
	if n, ok := d.names[h]; ok {
		return n
	}
	return fmt.Sprintf("template-%d", h)
}

func run(listOnly bool) error {
	d := buildDemo()
	defer d.iso.Dispose()

	fmt.Printf("Isolate: %d templates registered\n\n", d.iso.TemplateCount())

	fmt.Println("Templates:")
	d.iso.Registry().Each(func(h v8shim.Handle, kind registry.Kind, v any) bool {
		line := fmt.Sprintf("  [%d] %-16s %s", h, d.name(h), kind)
		if ot, ok := v.(*template.ObjectTemplate); ok {
			extras := []string{fmt.Sprintf("fields=%d", ot.InternalFieldCount())}
			if n := len(ot.NamedHandlers()); n > 0 {
				extras = append(extras, fmt.Sprintf("named=%d", n))
			}
			line += "  (" + strings.Join(extras, ", ") + ")"
		}
		fmt.Println(line)
		return true
	})

	if listOnly {
		return nil
	}

	r := realm.New()

	fmt.Println("\nMaterializing File instance...")
	obj, err := d.file.NewInstance(r)
	if err != nil {
		return fmt.Errorf("materialize: %w", err)
	}

	obj.SetInternalField(1, "/tmp/demo.txt")
	obj.MarkInternalFieldGCVisible(0)

	fmt.Printf("Instance of [%d] %s:\n", obj.Template(), d.name(obj.Template()))
	for i := 0; i < obj.InternalFieldCount(); i++ {
		fmt.Printf("  field %d: %-14v (%s)\n", i, obj.GetInternalField(i), obj.InternalFieldSlotKind(i))
	}
	fmt.Println("  resolved handlers:")
	for _, nh := range obj.NamedHandlers() {
		val, _ := nh.Handler.Getter(obj, nh.Name)
		fmt.Printf("    %-6s -> %v\n", nh.Name, val)
	}

	fmt.Printf("\nCollector: %d live instance(s), gc-visible slots %v\n", d.gc.Live(), d.gc.GCVisible(obj))

	obj.Finalize()
	fmt.Printf("After finalize: %d live instance(s)\n", d.gc.Live())

	return nil
}
