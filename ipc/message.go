// Package ipc exposes the engine over HTTP and a websocket event stream
package ipc

import (
	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/scene"
)

// Websocket message types
const (
	TypeCommand = "command"
	TypeResult  = "result"
	TypeConfig  = "config"
	TypeError   = "error"
)

// CommandRequest is the body of POST /v1/command
// A zero node targets the global scope; a [node=N] prefix in the line wins
type CommandRequest struct {
	Command string       `json:"command" binding:"required"`
	Node    glass.NodeID `json:"node,omitempty"`
}

// ConfigReply carries the published global parameters
type ConfigReply struct {
	Generation uint64       `json:"generation"`
	Params     glass.Params `json:"params"`
}

// CreateNodeRequest is the body of POST /v1/nodes
type CreateNodeRequest struct {
	Parent glass.NodeID `json:"parent"`
	Name   string       `json:"name"`
}

// NodeView is one node as rendered by the most recent frame
type NodeView struct {
	scene.Node
	Effective bool `json:"effective"`
}

// ScriptReply is the result of POST /v1/script
type ScriptReply struct {
	Applied int            `json:"applied"`
	Result  command.Result `json:"result"`
}

// DirectiveInfo describes one directive for help output
type DirectiveInfo struct {
	Name   string          `json:"name"`
	Usage  string          `json:"usage"`
	Scoped bool            `json:"scoped"`
	Bounds *command.Bounds `json:"bounds,omitempty"`
}

// Message is the websocket frame in both directions
type Message struct {
	Type    string          `json:"type"`
	ID      uint64          `json:"id,omitempty"`
	Command string          `json:"command,omitempty"`
	Node    glass.NodeID    `json:"node,omitempty"`
	Result  *command.Result `json:"result,omitempty"`
	Config  *ConfigReply    `json:"config,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// DirectiveTable lists the directive table in help order
func DirectiveTable() []DirectiveInfo {
	ds := command.Directives()
	out := make([]DirectiveInfo, 0, len(ds))
	for _, d := range ds {
		out = append(out, DirectiveInfo{Name: d.Name, Usage: d.Usage, Scoped: d.Scoped, Bounds: d.Bounds})
	}
	return out
}
