// Package scene is an in-memory node tree carrying per-node liquid glass overrides
package scene

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/lixenwraith/liquid-glass/glass"
)

// ErrParentNotFound is returned when creating a node under a missing parent
var ErrParentNotFound = errors.New("parent node not found")

// Root is the implicit tree root; it carries no override and cannot be destroyed
const Root glass.NodeID = 0

// Node is a read-only view of one tree node
type Node struct {
	ID       glass.NodeID   `json:"id"`
	Parent   glass.NodeID   `json:"parent"`
	Name     string         `json:"name"`
	Override glass.Override `json:"override"`
}

type node struct {
	parent   glass.NodeID
	name     string
	override glass.Override
	children []glass.NodeID
}

// Tree holds every live node
// Writes come from the frame loop goroutine; reads may come from IPC handlers
type Tree struct {
	mu     sync.RWMutex
	nodes  map[glass.NodeID]*node
	nextID glass.NodeID
}

// NewTree creates an empty tree
func NewTree() *Tree {
	return &Tree{
		nodes:  make(map[glass.NodeID]*node),
		nextID: 1,
	}
}

// Create adds a node under parent with an unset override
func (t *Tree) Create(parent glass.NodeID, name string) (glass.NodeID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var p *node
	if parent != Root {
		var ok bool
		if p, ok = t.nodes[parent]; !ok {
			return 0, fmt.Errorf("%w: %d", ErrParentNotFound, parent)
		}
	}

	id := t.nextID
	t.nextID++
	t.nodes[id] = &node{parent: parent, name: name}
	if p != nil {
		p.children = append(p.children, id)
	}
	return id, nil
}

// Destroy removes a node and its descendants, discarding their overrides
// Returns the number of nodes removed
func (t *Tree) Destroy(id glass.NodeID) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return 0
	}
	if p, ok := t.nodes[n.parent]; ok {
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	return t.destroyLocked(id)
}

func (t *Tree) destroyLocked(id glass.NodeID) int {
	n, ok := t.nodes[id]
	if !ok {
		return 0
	}
	removed := 1
	for _, c := range n.children {
		removed += t.destroyLocked(c)
	}
	delete(t.nodes, id)
	return removed
}

// Exists reports whether id is a live node
func (t *Tree) Exists(id glass.NodeID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.nodes[id]
	return ok
}

// Override returns the node's override and whether the node exists
func (t *Tree) Override(id glass.NodeID) (glass.Override, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[id]
	if !ok {
		return glass.Override{}, false
	}
	return n.override, true
}

// SetOverride replaces the node's override, false if the node does not exist
func (t *Tree) SetOverride(id glass.NodeID, o glass.Override) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.nodes[id]
	if !ok {
		return false
	}
	n.override = o
	return true
}

// SetAllOverrides pins every live node to the same override in one pass
func (t *Tree) SetAllOverrides(o glass.Override) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range t.nodes {
		n.override = o
	}
	return len(t.nodes)
}

// Len returns the live node count
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// Nodes returns a snapshot of all nodes ordered by ID
func (t *Tree) Nodes() []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Node, 0, len(t.nodes))
	for id, n := range t.nodes {
		out = append(out, Node{ID: id, Parent: n.parent, Name: n.name, Override: n.override})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns all live node IDs in ascending order
func (t *Tree) IDs() []glass.NodeID {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]glass.NodeID, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
