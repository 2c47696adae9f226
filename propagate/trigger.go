// Package propagate turns committed parameter changes into re-evaluation requests
//
// A global change requests a full pass over the tree; a node-scoped toggle marks
// exactly one node. Requests are recorded, not executed: the frame loop drains
// them before producing the next frame.
package propagate

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/liquid-glass/event"
	"github.com/lixenwraith/liquid-glass/glass"
)

// GenerationSource reports the config generation a request is raised against
type GenerationSource interface {
	Generation() uint64
}

// Pending is the coalesced set of outstanding requests
type Pending struct {
	Full       bool
	Nodes      []glass.NodeID // Ascending, unique; nil when Full
	Generation uint64         // Highest generation among drained requests
}

// Empty reports whether nothing needs re-evaluation
func (p Pending) Empty() bool {
	return !p.Full && len(p.Nodes) == 0
}

// Trigger records propagation requests on the event queue
type Trigger struct {
	queue  *event.Queue
	gen    GenerationSource
	logger zerolog.Logger
}

// NewTrigger creates a trigger pushing onto q
func NewTrigger(q *event.Queue, gen GenerationSource, logger zerolog.Logger) *Trigger {
	return &Trigger{
		queue:  q,
		gen:    gen,
		logger: logger.With().Str("component", "propagate").Logger(),
	}
}

// Full requests re-evaluation of every node
func (t *Trigger) Full() {
	g := t.gen.Generation()
	t.queue.Push(event.Event{Type: event.EventArrangeRoot, Generation: g})
	propagationRequestsTotal.WithLabelValues(levelFull).Inc()
	t.logger.Trace().Uint64("generation", g).Msg("full propagation requested")
}

// Node requests re-evaluation of id only
func (t *Trigger) Node(id glass.NodeID) {
	g := t.gen.Generation()
	t.queue.Push(event.Event{Type: event.EventNodeDirty, Node: id, Generation: g})
	propagationRequestsTotal.WithLabelValues(levelNode).Inc()
	t.logger.Trace().Uint64("node", uint64(id)).Uint64("generation", g).Msg("node propagation requested")
}

// Drain consumes all outstanding requests
// A full request subsumes node requests; lost requests escalate to full
func (t *Trigger) Drain() Pending {
	events, lost := t.queue.Consume()

	var p Pending
	if lost {
		p.Full = true
		propagationOverflowsTotal.Inc()
		t.logger.Warn().Msg("propagation queue overflowed, escalating to full")
	}

	seen := make(map[glass.NodeID]struct{})
	for _, ev := range events {
		if ev.Generation > p.Generation {
			p.Generation = ev.Generation
		}
		switch ev.Type {
		case event.EventArrangeRoot:
			p.Full = true
		case event.EventNodeDirty:
			seen[ev.Node] = struct{}{}
		}
	}

	switch {
	case p.Full:
		propagationDrainsTotal.WithLabelValues(levelFull).Inc()
	case len(seen) > 0:
		p.Nodes = make([]glass.NodeID, 0, len(seen))
		for id := range seen {
			p.Nodes = append(p.Nodes, id)
		}
		sort.Slice(p.Nodes, func(i, j int) bool { return p.Nodes[i] < p.Nodes[j] })
		propagationDrainsTotal.WithLabelValues(levelNode).Inc()
	}
	return p
}

// Outstanding returns the approximate number of undrained requests
func (t *Trigger) Outstanding() int {
	return t.queue.Len()
}
