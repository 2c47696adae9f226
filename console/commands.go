package console

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lixenwraith/liquid-glass/audio"
	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/scene"
)

// CommandResult represents the outcome of a command line
type CommandResult struct {
	Continue bool // false = exit console
	OK       bool
}

// ExecuteCommand runs a console command or, failing that, a directive in the selected scope
func (c *Console) ExecuteCommand(ctx context.Context, line string) CommandResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return CommandResult{Continue: true, OK: true}
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	var err error
	switch cmd {
	case "q", "quit":
		return CommandResult{Continue: false, OK: true}
	case "h", "help", "?":
		c.setStatus(helpText(args), false)
		return CommandResult{Continue: true, OK: true}
	case "sel", "select":
		err = c.handleSelect(args)
	case "new":
		err = c.handleNew(ctx, args)
	case "rm":
		err = c.handleRemove(ctx, args)
	case "sound":
		err = c.handleSound()
	case "source":
		err = c.handleSource(ctx, args)
	default:
		err = c.eng.Execute(ctx, command.ForNode(c.selected), line)
		if err == nil {
			c.setStatus("ok: "+line, false)
		}
	}

	if err != nil {
		c.logger.Debug().Err(err).Str("line", line).Msg("console command failed")
		c.setStatus(err.Error(), true)
		c.player.Play(audio.CueReject)
		return CommandResult{Continue: true, OK: false}
	}
	c.player.Play(audio.CueAccept)
	return CommandResult{Continue: true, OK: true}
}

func (c *Console) handleSelect(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sel <id|global>")
	}
	if args[0] == "global" {
		c.selected = 0
		c.setStatus("scope: global", false)
		return nil
	}
	id, err := parseNodeID(args[0])
	if err != nil {
		return err
	}
	if !c.eng.Tree().Exists(id) {
		return fmt.Errorf("%w: %d", command.ErrNodeNotFound, id)
	}
	c.selected = id
	c.setStatus(fmt.Sprintf("scope: node %d", id), false)
	return nil
}

func (c *Console) handleNew(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: new <name> [parent]")
	}
	parent := scene.Root
	if len(args) == 2 {
		var err error
		if parent, err = parseNodeID(args[1]); err != nil {
			return err
		}
	}
	id, err := c.eng.CreateNode(ctx, parent, args[0])
	if err != nil {
		return err
	}
	c.setStatus(fmt.Sprintf("created node %d %q", id, args[0]), false)
	return nil
}

func (c *Console) handleRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm <id>")
	}
	id, err := parseNodeID(args[0])
	if err != nil {
		return err
	}
	removed, err := c.eng.DestroyNode(ctx, id)
	if err != nil {
		return err
	}
	if !c.eng.Tree().Exists(c.selected) {
		c.selected = 0
	}
	c.setStatus(fmt.Sprintf("removed %d node(s)", removed), false)
	return nil
}

func (c *Console) handleSound() error {
	if c.player.Enabled() {
		c.player.SetEnabled(false)
		c.audible.Store(false)
		c.setStatus("sound off", false)
		return nil
	}
	c.player.SetEnabled(true)
	c.audible.Store(c.player.Enabled())
	if !c.player.Enabled() {
		return fmt.Errorf("audio unavailable")
	}
	c.setStatus("sound on", false)
	return nil
}

func (c *Console) handleSource(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: source <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	applied, err := c.eng.RunScript(ctx, command.ForNode(c.selected), f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	c.setStatus(fmt.Sprintf("applied %d directive(s) from %s", applied, args[0]), false)
	return nil
}

func parseNodeID(tok string) (glass.NodeID, error) {
	id, err := strconv.ParseUint(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q", tok)
	}
	return glass.NodeID(id), nil
}

func helpText(args []string) string {
	if len(args) == 1 {
		if d, ok := command.Lookup(args[0]); ok {
			return d.Name + " " + d.Usage
		}
		return fmt.Sprintf("%s: %s", command.ErrUnknownDirective, args[0])
	}
	return "q | sel <id|global> | new <name> [parent] | rm <id> | sound | source <file> | help [directive]"
}
