package main

import (
	"context"
	"fmt"
	"os"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/engine"
	"github.com/lixenwraith/liquid-glass/glass"
)

// startEngine starts an engine and applies the [glass] table then the startup script
// Any rejected startup value stops the engine and fails
func (a *app) startEngine(ctx context.Context) (*engine.Engine, error) {
	eng := engine.New(engine.Options{
		Initial:  glass.Defaults(),
		Interval: a.settings.Engine.FrameInterval,
		Logger:   a.logger,
	})
	eng.Start()

	for _, line := range a.settings.Glass {
		if err := eng.Execute(ctx, command.Global, line); err != nil {
			eng.Stop()
			return nil, fmt.Errorf("config [glass]: %w", err)
		}
	}

	if a.settings.Script != "" {
		if err := runScriptFile(ctx, eng, command.Global, a.settings.Script); err != nil {
			eng.Stop()
			return nil, err
		}
	}

	a.logger.Info().
		Int("startup_directives", len(a.settings.Glass)).
		Uint64("generation", eng.Config().Generation()).
		Msg("engine ready")
	return eng, nil
}

func runScriptFile(ctx context.Context, eng *engine.Engine, scope command.Scope, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	if _, err := eng.RunScript(ctx, scope, f); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}
