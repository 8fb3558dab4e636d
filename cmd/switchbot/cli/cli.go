// Package cli implements the interactive SwitchBot session: device
// selection, command execution, and the surrounding configuration.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/kojiishi/switchbot-go/pkg/log"
	"github.com/kojiishi/switchbot-go/pkg/switchbot"
)

// Cli drives one session: it owns the configuration, the API client,
// and the current device selection.
type Cli struct {
	config *Config
	client *switchbot.Client
	input  *UserInput
	out    io.Writer
	events log.Logger
	help   *switchbot.Help

	// current holds the 0-based indexes of the selected devices, in
	// selection order.
	current []int
}

// New creates a session for the given configuration. The events
// logger receives one event per API call; nil disables capture.
func New(config *Config, events log.Logger) *Cli {
	if events == nil {
		events = log.NoopLogger{}
	}
	return &Cli{config: config, out: os.Stdout, events: events}
}

func newCliForTest(n int) *Cli {
	return &Cli{
		config: &Config{Aliases: map[string]string{}},
		client: switchbot.NewClientForTest(n),
		out:    io.Discard,
		events: log.NoopLogger{},
	}
}

func (c *Cli) devices() *switchbot.DeviceList {
	return c.client.Devices()
}

func (c *Cli) service() *switchbot.Service {
	return c.client.Service()
}

func (c *Cli) hasCurrentDevice() bool {
	return len(c.current) > 0
}

func (c *Cli) firstCurrentDevice() *switchbot.Device {
	return c.devices().At(c.current[0])
}

// Run executes the session: alias updates and one-shot commands when
// given, the interactive loop otherwise.
func (c *Cli) Run(ctx context.Context) error {
	defer c.closeInput()

	interactive := true
	if len(c.config.AliasUpdates) > 0 {
		c.config.UpdateAliases()
		c.config.PrintAliases(c.out)
		interactive = false
	}

	if len(c.config.Commands) > 0 {
		if err := c.ensureDevices(); err != nil {
			return err
		}
		return c.executeAll(ctx, c.config.Commands)
	}
	if interactive {
		if err := c.ensureDevices(); err != nil {
			return err
		}
		return c.runInteractive(ctx)
	}
	return nil
}

func (c *Cli) runInteractive(ctx context.Context) error {
	input, err := c.ensureInput()
	if err != nil {
		return err
	}
	c.out = input.Stdout()
	c.printDevices()
	for {
		if c.hasCurrentDevice() {
			input.SetPrompt("Command> ")
		} else {
			input.SetPrompt("Device> ")
		}

		text, err := input.ReadLine()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch text {
		case "q":
			return nil
		case "":
			if !c.hasCurrentDevice() {
				return nil
			}
			c.current = nil
			c.printDevices()
		default:
			changed, err := c.execute(ctx, text)
			if err != nil {
				slog.Error(err.Error())
				continue
			}
			if changed {
				c.printDevices()
			}
		}
	}
}

// executeAll runs commands given on the command line. Unlike the
// interactive loop, the first error aborts the rest.
func (c *Cli) executeAll(ctx context.Context, commands []string) error {
	for _, command := range commands {
		if _, err := c.execute(ctx, command); err != nil {
			return err
		}
	}
	return nil
}

// execute runs one input line. An alias matching the whole line is
// substituted first, once; the replacement is not looked up again, so
// an alias may shadow a builtin without looping. Returns true when
// the device selection changed.
func (c *Cli) execute(ctx context.Context, text string) (bool, error) {
	if alias, ok := c.config.Aliases[text]; ok {
		slog.Debug("alias", "from", text, "to", alias)
		return c.executeNoAlias(ctx, alias)
	}
	return c.executeNoAlias(ctx, text)
}

// executeNoAlias resolves one line: a device selector first, then a
// global builtin, then (with a selection) a branch or command. When
// nothing matches and no devices are selected, the selector error is
// what the user sees.
func (c *Cli) executeNoAlias(ctx context.Context, text string) (bool, error) {
	selectErr := c.setCurrentDevices(text)
	if selectErr == nil {
		return true, nil
	}
	done, err := c.executeGlobalBuiltin(text)
	if done || err != nil {
		return false, err
	}
	if c.hasCurrentDevice() {
		done, err := c.executeIfExpr(ctx, text)
		if done {
			return false, err
		}
		return false, c.executeCommand(ctx, text)
	}
	return false, selectErr
}

func (c *Cli) setCurrentDevices(text string) error {
	indexes, err := c.parseDeviceIndexes(text)
	if err != nil {
		return err
	}
	slog.Debug("select", "indexes", indexes)
	c.current = indexes
	return nil
}

func (c *Cli) executeGlobalBuiltin(text string) (bool, error) {
	if text == "devices" {
		c.printAllDevices()
		return true, nil
	}
	return false, nil
}

func (c *Cli) executeDeviceBuiltin(ctx context.Context, text string) (bool, error) {
	if text == "status" {
		return true, c.updateStatus(ctx, "")
	}
	if key, ok := strings.CutPrefix(text, "status."); ok {
		return true, c.updateStatus(ctx, key)
	}
	if text == "help" {
		return true, c.printCommandHelps(ctx)
	}
	return false, nil
}

// executeCommand sends one command to every selected device.
func (c *Cli) executeCommand(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	done, err := c.executeDeviceBuiltin(ctx, text)
	if done || err != nil {
		return err
	}
	command := switchbot.ParseCommand(text)
	return c.forEachSelectedDevice(ctx,
		func(ctx context.Context, device *switchbot.Device) error {
			return device.Command(ctx, c.service(), &command)
		},
		func(*switchbot.Device) error { return nil },
	)
}

// updateStatus refreshes every selected device and prints the whole
// status map, or just one key when given.
func (c *Cli) updateStatus(ctx context.Context, key string) error {
	return c.forEachSelectedDevice(ctx,
		func(ctx context.Context, device *switchbot.Device) error {
			return device.UpdateStatus(ctx, c.service())
		},
		func(device *switchbot.Device) error {
			if key == "" {
				return device.WriteStatusTo(c.out)
			}
			if value, ok := device.StatusByKey(key); ok {
				fmt.Fprintln(c.out, value)
				return nil
			}
			slog.Error(fmt.Sprintf("no status key %q for %s", key, device))
			return nil
		},
	)
}

func (c *Cli) printCommandHelps(ctx context.Context) error {
	help, err := c.ensureHelp(ctx)
	if err != nil {
		return err
	}
	for _, index := range c.current {
		device := c.devices().At(index)
		for _, commandHelp := range help.CommandHelps(device) {
			fmt.Fprintln(c.out, commandHelp.String())
		}
	}
	return nil
}

// printDevices shows the selection: the full list when nothing is
// selected, numbered one-liners for a multi-selection, and the full
// detail for a single device.
func (c *Cli) printDevices() {
	if !c.hasCurrentDevice() {
		c.printAllDevices()
		return
	}
	if len(c.current) >= 2 {
		for _, index := range c.current {
			fmt.Fprintf(c.out, "%d: %s\n", index+1, c.devices().At(index))
		}
		return
	}
	if err := c.firstCurrentDevice().WriteDetailTo(c.out); err != nil {
		slog.Error(err.Error())
	}
}

func (c *Cli) printAllDevices() {
	for i := 0; i < c.devices().Len(); i++ {
		fmt.Fprintf(c.out, "%d: %s\n", i+1, c.devices().At(i))
	}
}

// ensureDevices lazily authenticates and loads the device directory.
func (c *Cli) ensureDevices() error {
	if c.client != nil && !c.devices().IsEmpty() {
		return nil
	}
	input, err := c.ensureInput()
	if err != nil {
		return err
	}
	if err := c.config.EnsureAuth(input); err != nil {
		return err
	}
	svc := switchbot.NewService(switchbot.ServiceConfig{
		Token:                 c.config.Token,
		Secret:                c.config.Secret,
		RemoteCommandInterval: c.config.RemoteCommandInterval,
		EventLogger:           c.events,
	})
	c.client = switchbot.NewClient(svc)
	if err := c.client.LoadDevices(context.Background()); err != nil {
		return err
	}
	slog.Debug("loaded devices", "count", c.devices().Len())
	return nil
}

// ensureHelp loads the command documentation, preferring the on-disk
// cache over a README fetch. The fetched copy is cached best-effort.
func (c *Cli) ensureHelp(ctx context.Context) (*switchbot.Help, error) {
	if c.help != nil {
		return c.help, nil
	}
	cachePath := ""
	if path, err := ConfigPath(); err == nil {
		cachePath = filepath.Join(filepath.Dir(path), "help.yaml")
		if help, err := switchbot.LoadHelpCache(cachePath); err == nil && help != nil {
			c.help = help
			return help, nil
		} else if err != nil {
			slog.Debug("help cache load failed", "path", cachePath, "error", err)
		}
	}
	help, err := switchbot.LoadHelp(ctx)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := help.SaveCache(cachePath); err != nil {
			slog.Debug("help cache save failed", "path", cachePath, "error", err)
		}
	}
	c.help = help
	return help, nil
}

func (c *Cli) ensureInput() (*UserInput, error) {
	if c.input != nil {
		return c.input, nil
	}
	input, err := NewUserInput()
	if err != nil {
		return nil, err
	}
	c.input = input
	return input, nil
}

func (c *Cli) closeInput() {
	if c.input != nil {
		c.input.Close()
		c.input = nil
	}
}
