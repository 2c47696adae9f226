// Package status holds lock-free counters and readouts shared between the frame
// loop, the directive executor and the console
package status

import "sync/atomic"

// Well-known keys
const (
	DirectivesOK       = "directives.ok"
	DirectivesRejected = "directives.rejected"
	LastDirective      = "directives.last"
	LastError          = "directives.last_error"
	FramesProduced     = "engine.frames"
	NodesReevaluated   = "engine.nodes_reevaluated"
	FullPasses         = "engine.full_passes"
	FrameMillis        = "engine.frame_ms"
	ConsoleAudible     = "console.audible"
)

// Registry is the central readout facade
// Writers cache pointers at construction; hot paths write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total readouts across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot copies every readout into a plain map keyed by name
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Bools.Range(func(k string, v *atomic.Bool) { out[k] = v.Load() })
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *AtomicFloat) { out[k] = v.Get() })
	r.Strings.Range(func(k string, v *AtomicString) { out[k] = v.Load() })
	return out
}
