package realm

import (
	"sort"

	v8shim "github.com/wippyai/v8-shim"
)

// TrackingCollector is an in-process Collector that records every
// registration, unregistration and GC-visibility mark it receives. Tests and
// the inspector use it to verify the materializer's scoped register-on-create
// / unregister-on-finalize contract.
type TrackingCollector struct {
	records map[v8shim.Traced]*trackRecord
	live    int
}

type trackRecord struct {
	visible     map[int]bool
	registers   int
	unregisters int
	alive       bool
}

// NewTrackingCollector creates an empty tracking collector.
func NewTrackingCollector() *TrackingCollector {
	return &TrackingCollector{
		records: make(map[v8shim.Traced]*trackRecord),
	}
}

// Register records that the materializer handed over a live instance.
func (c *TrackingCollector) Register(instance v8shim.Traced) {
	rec := c.record(instance)
	rec.registers++
	if !rec.alive {
		rec.alive = true
		c.live++
	}
}

// Unregister records instance finalization.
func (c *TrackingCollector) Unregister(instance v8shim.Traced) {
	rec := c.record(instance)
	rec.unregisters++
	if rec.alive {
		rec.alive = false
		c.live--
	}
}

// MarkGCVisible records that slot index on instance should be traced.
func (c *TrackingCollector) MarkGCVisible(instance v8shim.Traced, index int) {
	rec := c.record(instance)
	if rec.visible == nil {
		rec.visible = make(map[int]bool)
	}
	rec.visible[index] = true
}

// Live returns the number of currently registered instances.
func (c *TrackingCollector) Live() int {
	return c.live
}

// Registered reports whether the instance is currently registered.
func (c *TrackingCollector) Registered(instance v8shim.Traced) bool {
	rec, ok := c.records[instance]
	return ok && rec.alive
}

// Seen reports whether the collector ever saw the instance at all.
func (c *TrackingCollector) Seen(instance v8shim.Traced) bool {
	_, ok := c.records[instance]
	return ok
}

// Registrations returns how many times Register was called for the instance.
func (c *TrackingCollector) Registrations(instance v8shim.Traced) int {
	rec, ok := c.records[instance]
	if !ok {
		return 0
	}
	return rec.registers
}

// Unregistrations returns how many times Unregister was called for the instance.
func (c *TrackingCollector) Unregistrations(instance v8shim.Traced) int {
	rec, ok := c.records[instance]
	if !ok {
		return 0
	}
	return rec.unregisters
}

// GCVisible returns the sorted slot indices marked visible on the instance.
func (c *TrackingCollector) GCVisible(instance v8shim.Traced) []int {
	rec, ok := c.records[instance]
	if !ok || len(rec.visible) == 0 {
		return nil
	}
	out := make([]int, 0, len(rec.visible))
	for i := range rec.visible {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (c *TrackingCollector) record(instance v8shim.Traced) *trackRecord {
	rec, ok := c.records[instance]
	if !ok {
		rec = &trackRecord{}
		c.records[instance] = rec
	}
	return rec
}
