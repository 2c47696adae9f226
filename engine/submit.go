package engine

import (
	"context"
	"io"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/glass"
)

// Execute runs one directive line; the returned error is the directive's result
func (e *Engine) Execute(ctx context.Context, scope command.Scope, line string) error {
	return e.do(ctx, func() error {
		gen := e.cfg.Generation()
		err := e.exec.ExecuteLine(scope, line)
		e.notifyIfCommitted(gen)
		return err
	})
}

// ExecuteArgs runs one pre-tokenized directive
func (e *Engine) ExecuteArgs(ctx context.Context, scope command.Scope, name string, args []string) error {
	return e.do(ctx, func() error {
		gen := e.cfg.Generation()
		err := e.exec.Execute(scope, name, args)
		e.notifyIfCommitted(gen)
		return err
	})
}

// RunScript reads a directive script on the calling goroutine and executes
// it as a single job; directives before a failing line stay committed
func (e *Engine) RunScript(ctx context.Context, scope command.Scope, r io.Reader) (int, error) {
	lines, err := command.ReadScript(r)
	if err != nil {
		return 0, err
	}

	var applied int
	err = e.do(ctx, func() error {
		gen := e.cfg.Generation()
		n, err := e.exec.RunScript(scope, lines)
		applied = n
		e.notifyIfCommitted(gen)
		return err
	})
	return applied, err
}

// CreateNode adds a node inheriting the global enable flag
func (e *Engine) CreateNode(ctx context.Context, parent glass.NodeID, name string) (glass.NodeID, error) {
	var id glass.NodeID
	err := e.do(ctx, func() error {
		var err error
		if id, err = e.tree.Create(parent, name); err != nil {
			return err
		}
		e.trigger.Node(id)
		return nil
	})
	return id, err
}

// DestroyNode removes a node and its descendants, returning how many were removed
func (e *Engine) DestroyNode(ctx context.Context, id glass.NodeID) (int, error) {
	var removed int
	err := e.do(ctx, func() error {
		removed = e.tree.Destroy(id)
		if removed == 0 {
			return command.ErrNodeNotFound
		}
		e.pruneResolved()
		return nil
	})
	return removed, err
}

// Sync produces a frame immediately and returns it
// Every request committed before the call is reflected in the result
func (e *Engine) Sync(ctx context.Context) (*Frame, error) {
	var f *Frame
	err := e.do(ctx, func() error {
		f = e.produceFrame()
		return nil
	})
	return f, err
}

// Subscribe returns a channel receiving the global parameters after each commit
// The channel is closed by cancel or when the engine stops
func (e *Engine) Subscribe(buffer int) (<-chan Update, func()) {
	return e.subs.subscribe(buffer)
}

func (e *Engine) notifyIfCommitted(before uint64) {
	// Single writer: generation and params cannot change between the two loads
	if gen := e.cfg.Generation(); gen != before {
		e.subs.publish(Update{Generation: gen, Params: e.cfg.Load()})
	}
}
