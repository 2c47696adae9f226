package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/liquid-glass/console"
	"github.com/lixenwraith/liquid-glass/parameter"
)

func newConsoleCmd(a *app) *cobra.Command {
	var (
		logFile string
		serve   bool
	)

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Tune parameters interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.bind(cmd,
				"console.audible", "audible",
				"ipc.listen", "listen",
				"engine.frame_interval", "frame-interval")

			// The terminal belongs to tcell; logs go to a file or nowhere
			var logOut io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			if err := a.load(logOut); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := a.newRuntime(serve, true)
			if err != nil {
				return err
			}
			if err := rt.hub.StartAll(ctx); err != nil {
				return err
			}
			defer func() {
				if err := rt.hub.StopAll(); err != nil {
					a.logger.Error().Err(err).Msg("shutdown")
				}
			}()

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init terminal: %w", err)
			}
			defer screen.Fini()

			return console.New(rt.engine.eng, screen, rt.audio.player, a.logger).Run(ctx)
		},
	}

	cmd.Flags().Bool("audible", false, "play accept/reject cues")
	cmd.Flags().Duration("frame-interval", parameter.FrameUpdateInterval, "frame production interval")
	cmd.Flags().String("listen", parameter.DefaultListenAddr, "control server address when --serve is set")
	cmd.Flags().BoolVar(&serve, "serve", false, "also run the control server")
	cmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file")
	return cmd
}
