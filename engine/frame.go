package engine

import (
	"time"

	"github.com/lixenwraith/liquid-glass/glass"
)

// Frame is an immutable record of what one produced frame rendered with
type Frame struct {
	Number      uint64
	Generation  uint64 // Config generation baked into Global
	Global      glass.Params
	Nodes       map[glass.NodeID]glass.Params // Effective parameters per node
	Reevaluated int
	FullPass    bool
}

// Effective returns the parameters node id was rendered with
func (f *Frame) Effective(id glass.NodeID) (glass.Params, bool) {
	p, ok := f.Nodes[id]
	return p, ok
}

// produceFrame drains propagation requests, re-resolves the affected nodes and
// publishes a new frame; must run on the loop goroutine
func (e *Engine) produceFrame() *Frame {
	start := time.Now()
	pending := e.trigger.Drain()
	global := e.cfg.Load()
	gen := e.cfg.Generation()

	reevaluated := 0
	if pending.Full {
		e.resolved = make(map[glass.NodeID]glass.Params, e.tree.Len())
		for _, n := range e.tree.Nodes() {
			e.resolved[n.ID] = glass.Resolve(global, n.Override)
		}
		reevaluated = len(e.resolved)
		e.statFullPasses.Add(1)
	} else {
		for _, id := range pending.Nodes {
			o, ok := e.tree.Override(id)
			if !ok {
				delete(e.resolved, id)
				continue
			}
			e.resolved[id] = glass.Resolve(global, o)
			reevaluated++
		}
	}

	e.frameNum++
	prev := e.frame.Load()
	f := &Frame{
		Number:      e.frameNum,
		Generation:  gen,
		Global:      global,
		Nodes:       prev.Nodes,
		Reevaluated: reevaluated,
		FullPass:    pending.Full,
	}
	if !pending.Empty() {
		f.Nodes = make(map[glass.NodeID]glass.Params, len(e.resolved))
		for id, p := range e.resolved {
			f.Nodes[id] = p
		}
		e.logger.Trace().
			Uint64("frame", f.Number).
			Bool("full", pending.Full).
			Int("reevaluated", reevaluated).
			Msg("frame re-evaluated")
	}
	e.frame.Store(f)

	e.statFrames.Add(1)
	e.statReevaluated.Add(int64(reevaluated))
	e.statFrameMillis.Set(float64(time.Since(start).Microseconds()) / 1000)
	return f
}

// pruneResolved drops cached entries for destroyed nodes
func (e *Engine) pruneResolved() {
	for id := range e.resolved {
		if !e.tree.Exists(id) {
			delete(e.resolved, id)
			e.trigger.Node(id)
		}
	}
}
