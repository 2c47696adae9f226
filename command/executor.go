// Package command validates liquid glass directives and commits them
//
// Every directive follows the same path: arity check, parse, range check,
// commit, propagate. Validation always completes before the store is touched,
// so a rejected directive leaves no trace besides its error.
package command

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/status"
)

// Nodes is the slice of the scene tree the executor writes overrides into
type Nodes interface {
	Exists(id glass.NodeID) bool
	Override(id glass.NodeID) (glass.Override, bool)
	SetOverride(id glass.NodeID, o glass.Override) bool
	SetAllOverrides(o glass.Override) int
}

// Propagator receives re-evaluation requests after a commit
type Propagator interface {
	Full()
	Node(id glass.NodeID)
}

// Scope selects the directive target: global, or one node
type Scope struct {
	node glass.NodeID
}

// Global is the scope with no target node
var Global = Scope{}

// ForNode returns a scope targeting id; the zero id is global
func ForNode(id glass.NodeID) Scope {
	return Scope{node: id}
}

// Node returns the target node and whether one is set
func (s Scope) Node() (glass.NodeID, bool) {
	return s.node, s.node != 0
}

func (s Scope) String() string {
	if s.node == 0 {
		return "global"
	}
	return fmt.Sprintf("node=%d", s.node)
}

// Executor runs directives against one configuration context
// Not safe for concurrent use: directives execute strictly one at a time
type Executor struct {
	cfg    *glass.Config
	nodes  Nodes
	prop   Propagator
	logger zerolog.Logger

	statOK       *atomic.Int64
	statRejected *atomic.Int64
	statLast     *status.AtomicString
	statLastErr  *status.AtomicString
}

// NewExecutor wires an executor; reg may be nil
func NewExecutor(cfg *glass.Config, nodes Nodes, prop Propagator, reg *status.Registry, logger zerolog.Logger) *Executor {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Executor{
		cfg:          cfg,
		nodes:        nodes,
		prop:         prop,
		logger:       logger.With().Str("component", "command").Logger(),
		statOK:       reg.Ints.Get(status.DirectivesOK),
		statRejected: reg.Ints.Get(status.DirectivesRejected),
		statLast:     reg.Strings.Get(status.LastDirective),
		statLastErr:  reg.Strings.Get(status.LastError),
	}
}

// Config returns the configuration context the executor commits into
func (e *Executor) Config() *glass.Config {
	return e.cfg
}

// Execute validates and commits one directive
func (e *Executor) Execute(scope Scope, name string, args []string) error {
	d, ok := Lookup(name)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownDirective, name)
		e.record(scope, name, args, err)
		return err
	}

	var err error
	if err = d.checkArity(len(args)); err == nil {
		if d.Scoped {
			err = e.toggle(scope, args[0])
		} else {
			err = e.apply(d, args[0])
		}
	}

	e.record(scope, name, args, err)
	return err
}

// ExecuteLine tokenizes line and executes it
// A leading "[node=N]" criteria block overrides scope; blank lines are no-ops
func (e *Executor) ExecuteLine(scope Scope, line string) error {
	s, name, args, err := ParseLine(line)
	if err != nil {
		e.record(scope, line, nil, err)
		return err
	}
	if name == "" {
		return nil
	}
	if id, ok := s.Node(); ok {
		scope = ForNode(id)
	}
	return e.Execute(scope, name, args)
}

// apply runs a global-only directive
func (e *Executor) apply(d *Directive, tok string) error {
	commit, err := d.parse(d, tok, e.cfg.Load())
	if err != nil {
		return err
	}
	e.cfg.Update(commit)
	e.prop.Full()
	return nil
}

// toggle resolves scope for the enable directive
// Global writes the default and pins every existing node to it
// A node target writes only that node's override
func (e *Executor) toggle(scope Scope, tok string) error {
	global := e.cfg.Load()

	id, local := scope.Node()
	if !local {
		enabled, recognized := parseBool(tok, global.Enabled)
		e.warnUnrecognized(tok, recognized)

		e.cfg.Update(func(p *glass.Params) { p.Enabled = enabled })
		n := e.nodes.SetAllOverrides(glass.Force(enabled))
		e.prop.Full()
		e.logger.Debug().Bool("enabled", enabled).Int("nodes_synced", n).Msg("global liquid glass toggled")
		return nil
	}

	o, ok := e.nodes.Override(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrNodeNotFound, id)
	}
	enabled, recognized := parseBool(tok, glass.Resolve(global, o).Enabled)
	e.warnUnrecognized(tok, recognized)

	e.nodes.SetOverride(id, glass.Force(enabled))
	e.prop.Node(id)
	return nil
}

func (e *Executor) warnUnrecognized(tok string, recognized bool) {
	if !recognized {
		e.logger.Debug().Str("token", tok).Msg("unrecognized boolean, treating as enable")
	}
}

func (e *Executor) record(scope Scope, name string, args []string, err error) {
	line := strings.TrimSpace(name + " " + strings.Join(args, " "))
	e.statLast.Store(line)

	metricName := name
	if _, ok := Lookup(name); !ok {
		metricName = "unknown"
	}

	if err != nil {
		e.statRejected.Add(1)
		e.statLastErr.Store(err.Error())
		directivesTotal.WithLabelValues(metricName, resultRejected).Inc()
		e.logger.Info().Str("directive", line).Stringer("scope", scope).Err(err).Msg("directive rejected")
		return
	}

	e.statOK.Add(1)
	directivesTotal.WithLabelValues(metricName, resultOK).Inc()
	e.logger.Debug().Str("directive", line).Stringer("scope", scope).Msg("directive applied")
}
