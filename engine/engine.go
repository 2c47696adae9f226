package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/event"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/parameter"
	"github.com/lixenwraith/liquid-glass/propagate"
	"github.com/lixenwraith/liquid-glass/scene"
	"github.com/lixenwraith/liquid-glass/status"
)

// ErrStopped is returned for work submitted to an engine that is not running
var ErrStopped = errors.New("engine stopped")

// job is a unit of work executed on the loop goroutine
type job struct {
	fn    func() error
	reply chan error
}

// Engine owns the parameter store, the scene tree and the propagation trigger
// Every mutation runs on the loop goroutine, interleaved with frame production,
// so directives execute strictly one at a time
type Engine struct {
	cfg     *glass.Config
	tree    *scene.Tree
	trigger *propagate.Trigger
	exec    *command.Executor
	reg     *status.Registry
	logger  zerolog.Logger

	interval time.Duration
	jobs     chan job

	// Render stand-in state, loop goroutine only
	resolved map[glass.NodeID]glass.Params
	frameNum uint64
	frame    atomic.Pointer[Frame]

	subs *broadcaster

	statFrames      *atomic.Int64
	statReevaluated *atomic.Int64
	statFullPasses  *atomic.Int64
	statFrameMillis *status.AtomicFloat

	stopChan chan struct{}
	done     chan struct{} // Closed when the loop goroutine returns
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// Options configures a new engine
type Options struct {
	Initial  glass.Params
	Interval time.Duration // Frame interval, defaults to parameter.FrameUpdateInterval
	Registry *status.Registry
	Logger   zerolog.Logger
}

// New wires store, tree, trigger and executor around one configuration context
func New(opts Options) *Engine {
	if opts.Interval <= 0 {
		opts.Interval = parameter.FrameUpdateInterval
	}
	if opts.Registry == nil {
		opts.Registry = status.NewRegistry()
	}

	cfg := glass.NewConfig(opts.Initial)
	tree := scene.NewTree()
	trigger := propagate.NewTrigger(event.NewQueue(), cfg, opts.Logger)

	e := &Engine{
		cfg:             cfg,
		tree:            tree,
		trigger:         trigger,
		exec:            command.NewExecutor(cfg, tree, trigger, opts.Registry, opts.Logger),
		reg:             opts.Registry,
		logger:          opts.Logger.With().Str("component", "engine").Logger(),
		interval:        opts.Interval,
		jobs:            make(chan job, parameter.DirectiveQueueSize),
		resolved:        make(map[glass.NodeID]glass.Params),
		subs:            newBroadcaster(),
		statFrames:      opts.Registry.Ints.Get(status.FramesProduced),
		statReevaluated: opts.Registry.Ints.Get(status.NodesReevaluated),
		statFullPasses:  opts.Registry.Ints.Get(status.FullPasses),
		statFrameMillis: opts.Registry.Floats.Get(status.FrameMillis),
		stopChan:        make(chan struct{}),
		done:            make(chan struct{}),
	}
	e.frame.Store(&Frame{Global: opts.Initial, Nodes: map[glass.NodeID]glass.Params{}})
	return e
}

// Config returns the configuration context for lock-free reads
func (e *Engine) Config() *glass.Config { return e.cfg }

// Tree returns the scene tree for reads; mutate only through the engine
func (e *Engine) Tree() *scene.Tree { return e.tree }

// Status returns the readout registry
func (e *Engine) Status() *status.Registry { return e.reg }

// Frame returns the last produced frame
func (e *Engine) Frame() *Frame { return e.frame.Load() }

// Start launches the loop goroutine
func (e *Engine) Start() {
	if e.running.CompareAndSwap(false, true) {
		e.wg.Add(1)
		go e.loop()
		e.logger.Debug().Dur("interval", e.interval).Msg("engine started")
	}
}

// Stop halts the loop and waits for it to exit
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		if e.running.CompareAndSwap(true, false) {
			close(e.stopChan)
			e.wg.Wait()
			e.subs.closeAll()
			e.logger.Debug().Uint64("frames", e.frameNum).Msg("engine stopped")
		}
	})
}

func (e *Engine) loop() {
	defer e.wg.Done()
	defer close(e.done)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopChan:
			return
		case j := <-e.jobs:
			j.reply <- j.fn()
		case <-ticker.C:
			e.produceFrame()
		}
	}
}

// do runs fn on the loop goroutine and waits for its result
// ctx bounds only the enqueue; a queued job always reports what it committed
func (e *Engine) do(ctx context.Context, fn func() error) error {
	if !e.running.Load() {
		return ErrStopped
	}
	j := job{fn: fn, reply: make(chan error, 1)}
	select {
	case e.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopChan:
		return ErrStopped
	}
	select {
	case err := <-j.reply:
		return err
	case <-e.done:
		// The loop may have run the job before it exited
		select {
		case err := <-j.reply:
			return err
		default:
			return ErrStopped
		}
	}
}
