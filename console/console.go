// Package console is a terminal front end for tuning liquid glass parameters
package console

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/liquid-glass/audio"
	"github.com/lixenwraith/liquid-glass/engine"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/parameter"
	"github.com/lixenwraith/liquid-glass/status"
)

// Mode is the input mode of the console
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeCommand
)

// Console renders engine state and feeds typed lines to the engine
// All fields are owned by the Run goroutine
type Console struct {
	eng     *engine.Engine
	screen  tcell.Screen
	player  *audio.Player
	audible *atomic.Bool // Mirrors player state into the status registry
	logger  zerolog.Logger

	width, height int

	mode     Mode
	input    []rune
	history  []string
	histPos  int
	selected glass.NodeID // Zero selects the global scope

	statusMsg   string
	statusError bool
	statusAt    time.Time
}

// New creates a console on an initialized screen; player may be nil
func New(eng *engine.Engine, screen tcell.Screen, player *audio.Player, logger zerolog.Logger) *Console {
	if player == nil {
		player = audio.NewPlayer(0)
	}
	c := &Console{
		eng:    eng,
		screen: screen,
		player: player,
		logger: logger.With().Str("component", "console").Logger(),
	}
	c.audible = eng.Status().Bools.Get(status.ConsoleAudible)
	c.audible.Store(player.Enabled())
	c.width, c.height = screen.Size()
	return c
}

// Run polls input and redraws until quit or ctx ends
func (c *Console) Run(ctx context.Context) error {
	ticker := time.NewTicker(parameter.ConsoleRedrawInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	c.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if !c.handleEvent(ctx, ev) {
				return nil
			}
			c.draw()
		case <-ticker.C:
			c.draw()
		}
	}
}

// handleEvent returns false when the console should exit
func (c *Console) handleEvent(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if c.mode == ModeCommand {
			return c.handleCommandKey(ctx, ev)
		}
		return c.handleNormalKey(ev)

	case *tcell.EventResize:
		c.width, c.height = c.screen.Size()
		c.screen.Sync()
	}
	return true
}

func (c *Console) handleNormalKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		return false
	case tcell.KeyDown:
		c.moveSelection(1)
	case tcell.KeyUp:
		c.moveSelection(-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case ':':
			c.mode = ModeCommand
			c.input = c.input[:0]
			c.histPos = len(c.history)
		case 'j':
			c.moveSelection(1)
		case 'k':
			c.moveSelection(-1)
		case 'g':
			c.selected = 0
		case 'q':
			return false
		}
	}
	return true
}

func (c *Console) handleCommandKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		c.mode = ModeNormal
		c.input = c.input[:0]
	case tcell.KeyEnter:
		line := string(c.input)
		c.mode = ModeNormal
		c.input = c.input[:0]
		if line != "" {
			c.history = append(c.history, line)
		}
		return c.ExecuteCommand(ctx, line).Continue
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(c.input) > 0 {
			c.input = c.input[:len(c.input)-1]
		} else {
			c.mode = ModeNormal
		}
	case tcell.KeyUp:
		if c.histPos > 0 {
			c.histPos--
			c.input = []rune(c.history[c.histPos])
		}
	case tcell.KeyDown:
		if c.histPos < len(c.history)-1 {
			c.histPos++
			c.input = []rune(c.history[c.histPos])
		} else {
			c.histPos = len(c.history)
			c.input = c.input[:0]
		}
	case tcell.KeyRune:
		c.input = append(c.input, ev.Rune())
	}
	return true
}

// moveSelection steps through global followed by each node in id order
func (c *Console) moveSelection(delta int) {
	ids := append([]glass.NodeID{0}, c.eng.Tree().IDs()...)
	pos := 0
	for i, id := range ids {
		if id == c.selected {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(ids)) % len(ids)
	c.selected = ids[pos]
}

// setStatus shows msg on the status line until it times out
func (c *Console) setStatus(msg string, isError bool) {
	c.statusMsg = msg
	c.statusError = isError
	c.statusAt = time.Now()
}

// status returns the current status message, empty once expired
// Errors stay until replaced
func (c *Console) status() (string, bool) {
	if c.statusMsg == "" {
		return "", false
	}
	if !c.statusError && time.Since(c.statusAt) > parameter.CommandStatusMessageTimeout {
		return "", false
	}
	return c.statusMsg, c.statusError
}
