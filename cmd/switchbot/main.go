// Command switchbot controls SwitchBot devices from the terminal,
// interactively or from command-line arguments.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kojiishi/switchbot-go/cmd/switchbot/cli"
	"github.com/kojiishi/switchbot-go/pkg/log"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		token             string
		secret            string
		clear             bool
		aliasUpdates      []string
		pause             float64
		parallelThreshold int
		logLevel          string
		logFile           string
	)

	cmd := &cobra.Command{
		Use:   "switchbot [command...]",
		Short: "Control SwitchBot devices from the command line",
		Long: `Control SwitchBot devices from the command line.

Without arguments, starts an interactive session. With arguments, each
argument is executed as one input line: a device selector, a command,
or a conditional.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogger(logLevel); err != nil {
				return err
			}

			config := &cli.Config{
				Token:             token,
				Secret:            secret,
				Clear:             clear,
				AliasUpdates:      aliasUpdates,
				ParallelThreshold: parallelThreshold,
				Commands:          args,
			}
			if cmd.Flags().Changed("pause") {
				if pause <= 0 {
					config.RemoteCommandInterval = -1
				} else {
					config.RemoteCommandInterval = time.Duration(pause * float64(time.Second))
				}
			}

			saved, err := cli.LoadConfig()
			if err != nil {
				slog.Debug("load config failed", "error", err)
				saved = &cli.Config{}
			}
			if clear {
				saved.ClearAuth()
			}
			config.Merge(saved)
			config.EnsureDefaults()

			var events log.Logger = log.NoopLogger{}
			if logFile != "" {
				fileLogger, err := log.NewFileLogger(logFile)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer fileLogger.Close()
				events = fileLogger
			}

			if err := cli.New(config, events).Run(cmd.Context()); err != nil {
				return err
			}
			return config.Save()
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&token, "token", os.Getenv("SWITCHBOT_TOKEN"), "API token for authentication")
	flags.StringVar(&secret, "secret", os.Getenv("SWITCHBOT_SECRET"), "API secret for authentication")
	flags.BoolVar(&clear, "clear", false, "clear the saved authentication")
	flags.StringArrayVarP(&aliasUpdates, "alias", "a", nil,
		`add or remove aliases ("alias=value" to add, omit the value to remove)`)
	flags.Float64Var(&pause, "pause", 0.5, "interval between commands to a remote device in seconds")
	flags.IntVarP(&parallelThreshold, "parallel-threshold", "P", 2, "minimum number of devices to parallelize")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.StringVar(&logFile, "log-file", "", "write an API call trace to this file")
	return cmd
}

func initLogger(level string) error {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(handler))
	return nil
}
