// Command glassctl runs and controls the liquid glass parameter engine
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lixenwraith/liquid-glass/config"
	"github.com/lixenwraith/liquid-glass/logging"
)

// app carries state shared by every subcommand
type app struct {
	v        *viper.Viper
	settings *config.Settings
	logger   zerolog.Logger

	configFile string
	envFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:           "glassctl",
		Short:         "Liquid glass effect parameter engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: liquidglass.toml in the user config dir or working dir)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the config")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error")
	flags.String("log-format", logging.FormatConsole, "log format: console or json")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newServeCmd(a),
		newConsoleCmd(a),
		newApplyCmd(a),
		newSendCmd(a),
		newWatchCmd(a),
		newDirectivesCmd(),
	)
	return root
}

// bind maps the running command's flags onto viper keys, given as key, flag pairs
// Call from RunE: only the executing command may own a shared key
func (a *app) bind(cmd *cobra.Command, pairs ...string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if f := cmd.Flags().Lookup(pairs[i+1]); f != nil {
			_ = a.v.BindPFlag(pairs[i], f)
		}
	}
}

// load reads configuration and builds the root logger writing to w
func (a *app) load(w io.Writer) error {
	s, err := config.Load(a.v, config.Options{ConfigFile: a.configFile, EnvFile: a.envFile})
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Level: s.Log.Level, Format: s.Log.Format, Writer: w})
	if err != nil {
		return err
	}
	a.settings = s
	a.logger = logger
	if s.File != "" {
		logger.Debug().Str("file", s.File).Msg("config loaded")
	}
	return nil
}
