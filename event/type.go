package event

import "github.com/lixenwraith/liquid-glass/glass"

// EventType represents the kind of propagation request
type EventType int

const (
	// EventArrangeRoot requests re-evaluation of every node
	// Trigger: any global parameter commit, global toggle
	// Consumer: frame loop | Node: unused
	EventArrangeRoot EventType = iota + 1

	// EventNodeDirty requests re-evaluation of exactly one node
	// Trigger: node-scoped toggle
	// Consumer: frame loop | Node: target
	EventNodeDirty
)

// String returns the event name used in logs
func (t EventType) String() string {
	switch t {
	case EventArrangeRoot:
		return "arrange_root"
	case EventNodeDirty:
		return "node_dirty"
	default:
		return "unknown"
	}
}

// Event is one propagation request
// Generation is the config generation the request was raised against
type Event struct {
	Type       EventType
	Node       glass.NodeID
	Generation uint64
}
