package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/liquid-glass/parameter"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the engine with the HTTP/websocket control server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.bind(cmd, "ipc.listen", "listen", "engine.frame_interval", "frame-interval")
			if err := a.load(os.Stderr); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := a.newRuntime(true, false)
			if err != nil {
				return err
			}
			if err := rt.hub.StartAll(ctx); err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				a.logger.Info().Msg("shutting down")
			case <-rt.ipc.Done():
			}
			return rt.hub.StopAll()
		},
	}

	cmd.Flags().String("listen", parameter.DefaultListenAddr, "control server address")
	cmd.Flags().Duration("frame-interval", parameter.FrameUpdateInterval, "frame production interval")
	return cmd
}
