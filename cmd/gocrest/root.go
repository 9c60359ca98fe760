package main

import (
	"os"

	"github.com/borzacchiello/gocrest"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	cfg       = defaultConfig()
	cmdLogger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:               "gocrest",
	Short:             "Inspect and solve recorded concolic executions",
	Long:              "gocrest reads the execution records written by an instrumented program and computes inputs that drive it down new branches",
	PersistentPreRunE: cmdLoadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "path to a YAML config file")
	flags.String("log-level", "", "log level (unless a config file is provided, default is \"info\")")
}

// cmdLoadConfig reads the config file, applies the flag overrides and sets up
// logging for the sub-command about to run.
func cmdLoadConfig(cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	if path != "" {
		if cfg, err = readConfigFile(path); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		if err := cfg.validate(); err != nil {
			return err
		}
	}

	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	cmdLogger = newLogger(level)
	gocrest.SetLogger(cmdLogger)
	return nil
}

func newLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
