package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/liquid-glass/command"
	"github.com/lixenwraith/liquid-glass/glass"
	"github.com/lixenwraith/liquid-glass/ipc"
	"github.com/lixenwraith/liquid-glass/parameter"
)

// addClientFlags registers the server address and target node flags
func addClientFlags(cmd *cobra.Command, node *uint64) {
	cmd.Flags().String("addr", parameter.DefaultListenAddr, "control server address")
	cmd.Flags().Uint64Var(node, "node", 0, "target node id (0 = global)")
}

func newSendCmd(a *app) *cobra.Command {
	var node uint64
	cmd := &cobra.Command{
		Use:   "send <directive> [args...]",
		Short: "Execute one directive on a running server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.bind(cmd, "ipc.listen", "addr")
			if err := a.load(os.Stderr); err != nil {
				return err
			}

			cl, err := ipc.Dial(cmd.Context(), a.settings.IPC.Listen)
			if err != nil {
				return err
			}
			defer cl.Close()

			res, err := cl.Command(cmd.Context(), glass.NodeID(node), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := printJSON(cmd, res); err != nil {
				return err
			}
			if !res.Success {
				return errors.New(res.Error)
			}
			return nil
		},
	}
	addClientFlags(cmd, &node)
	return cmd
}

func newApplyCmd(a *app) *cobra.Command {
	var (
		node   uint64
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "apply <script>",
		Short: "Run a directive script on a running server",
		Long: "Run a directive script on a running server.\n" +
			"One directive per line, optionally prefixed by [node=N]; '#' starts a comment.\n" +
			"Execution stops at the first rejected line.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.bind(cmd, "ipc.listen", "addr")
			if err := a.load(os.Stderr); err != nil {
				return err
			}

			if dryRun {
				eng, err := a.startEngine(cmd.Context())
				if err != nil {
					return err
				}
				defer eng.Stop()
				if err := runScriptFile(cmd.Context(), eng, command.ForNode(glass.NodeID(node)), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
				return nil
			}

			script, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			reply, err := ipc.PostScript(cmd.Context(), a.settings.IPC.Listen, glass.NodeID(node), script)
			if err != nil {
				return err
			}
			if err := printJSON(cmd, reply); err != nil {
				return err
			}
			if !reply.Result.Success {
				return fmt.Errorf("%s: %s", args[0], reply.Result.Error)
			}
			return nil
		},
	}
	addClientFlags(cmd, &node)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate against a local engine instead of a server")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the global parameters after every committed change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.bind(cmd, "ipc.listen", "addr")
			if err := a.load(os.Stderr); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cl, err := ipc.Dial(ctx, a.settings.IPC.Listen)
			if err != nil {
				return err
			}
			defer cl.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			return cl.Watch(ctx, func(ev ipc.ConfigReply) {
				if err := enc.Encode(ev); err != nil {
					a.logger.Warn().Err(err).Msg("write event")
				}
			})
		},
	}
	cmd.Flags().String("addr", parameter.DefaultListenAddr, "control server address")
	return cmd
}

func newDirectivesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "directives",
		Short: "List every directive with its accepted values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table := ipc.DirectiveTable()
			if asJSON {
				return printJSON(cmd, table)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range table {
				scope := "global"
				if d.Scoped {
					scope = "global|node"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Usage, scope)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
