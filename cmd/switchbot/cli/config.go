package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ConfigVersion is the current config schema version. Loading an older
// config migrates it forward in EnsureDefaults.
const ConfigVersion = 3

// Config holds the persisted settings plus the per-invocation options
// that are never written to disk.
type Config struct {
	Token   string            `json:"token,omitempty"`
	Secret  string            `json:"secret,omitempty"`
	Aliases map[string]string `json:"aliases,omitempty"`
	Version int               `json:"version"`

	// Per-invocation options, not persisted.
	Clear                 bool          `json:"-"`
	AliasUpdates          []string      `json:"-"`
	RemoteCommandInterval time.Duration `json:"-"`
	ParallelThreshold     int           `json:"-"`
	Commands              []string      `json:"-"`
}

// ConfigPath returns the per-user config file location.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "switchbot", "config.json"), nil
}

// LoadConfig reads the saved config. A missing file returns an empty
// config so first runs work without setup.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFrom(path)
}

// LoadConfigFrom reads a config from the given path.
func LoadConfigFrom(path string) (*Config, error) {
	slog.Debug("config: load", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &config, nil
}

// Save writes the config to the per-user location.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to the given path, creating parent
// directories as needed.
func (c *Config) SaveTo(path string) error {
	slog.Debug("config: save", "path", path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Merge fills authentication and aliases from a saved config. Values
// already set (e.g. from flags or the environment) win.
func (c *Config) Merge(saved *Config) {
	if c.Token == "" {
		c.Token = saved.Token
	}
	if c.Secret == "" {
		c.Secret = saved.Secret
	}
	for alias, value := range saved.Aliases {
		c.setAlias(alias, value)
	}
	c.Version = saved.Version
}

func (c *Config) setAlias(alias, value string) {
	if c.Aliases == nil {
		c.Aliases = map[string]string{}
	}
	c.Aliases[alias] = value
}

func (c *Config) setAliasIfMissing(alias, value string) {
	if _, ok := c.Aliases[alias]; !ok {
		c.setAlias(alias, value)
	}
}

// EnsureDefaults migrates the config to the current version, adding
// the default aliases each version introduced. Version 1 overwrites
// "on" and "off" unconditionally; later versions only fill gaps so
// user overrides survive.
func (c *Config) EnsureDefaults() {
	if c.Version < 1 {
		c.setAlias("on", "turnOn")
		c.setAlias("off", "turnOff")
		c.Version = 1
	}
	if c.Version < 2 {
		c.setAliasIfMissing("d", "devices")
		c.Version = 2
	}
	if c.Version < 3 {
		c.setAliasIfMissing("h", "help")
		c.Version = 3
	}
}

// UpdateAliases applies the pending alias updates: "name=value" adds
// or replaces, "name=" or a bare "name" removes, empty entries are
// ignored. The alias value may itself contain "=".
func (c *Config) UpdateAliases() {
	for _, update := range c.AliasUpdates {
		if update == "" {
			continue
		}
		alias, value, ok := strings.Cut(update, "=")
		if ok && value != "" {
			c.setAlias(alias, value)
		} else {
			delete(c.Aliases, alias)
		}
	}
}

// PrintAliases writes "alias=value" lines in sorted order.
func (c *Config) PrintAliases(w io.Writer) {
	aliases := make([]string, 0, len(c.Aliases))
	for alias := range c.Aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		fmt.Fprintf(w, "%s=%s\n", alias, c.Aliases[alias])
	}
}

// EnsureAuth prompts for any missing credential.
func (c *Config) EnsureAuth(input *UserInput) error {
	if c.Token == "" {
		input.SetPrompt("Token> ")
		token, err := input.ReadLine()
		if err != nil {
			return err
		}
		c.Token = token
	}
	if c.Secret == "" {
		input.SetPrompt("Secret> ")
		secret, err := input.ReadLine()
		if err != nil {
			return err
		}
		c.Secret = secret
	}
	return nil
}

// ClearAuth removes the saved credentials.
func (c *Config) ClearAuth() {
	c.Token = ""
	c.Secret = ""
}
