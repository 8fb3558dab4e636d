package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaults(t *testing.T) {
	config := &Config{}
	assert.Equal(t, 0, config.Version)
	assert.Empty(t, config.Aliases)

	config.EnsureDefaults()
	assert.Equal(t, ConfigVersion, config.Version)
	assert.Len(t, config.Aliases, 4)
	assert.Equal(t, "turnOn", config.Aliases["on"])
	assert.Equal(t, "turnOff", config.Aliases["off"])
	assert.Equal(t, "devices", config.Aliases["d"])
	assert.Equal(t, "help", config.Aliases["h"])
}

func TestEnsureDefaultsKeepsOverrides(t *testing.T) {
	config := &Config{
		Aliases: map[string]string{"d": "mine", "h": "custom"},
		Version: 1,
	}
	config.EnsureDefaults()
	assert.Equal(t, ConfigVersion, config.Version)
	assert.Equal(t, "mine", config.Aliases["d"])
	assert.Equal(t, "custom", config.Aliases["h"])
}

func TestUpdateAliases(t *testing.T) {
	config := &Config{}

	// Empty string is allowed as a no-op.
	config.AliasUpdates = []string{""}
	config.UpdateAliases()
	assert.Empty(t, config.Aliases)

	// The value may contain the "=" character.
	config.AliasUpdates = []string{"a=b=c"}
	config.UpdateAliases()
	assert.Equal(t, map[string]string{"a": "b=c"}, config.Aliases)

	config.AliasUpdates = []string{"a=b", "c=d"}
	config.UpdateAliases()
	assert.Equal(t, map[string]string{"a": "b", "c": "d"}, config.Aliases)

	// No value removes the alias.
	config.AliasUpdates = []string{"c"}
	config.UpdateAliases()
	assert.Equal(t, map[string]string{"a": "b"}, config.Aliases)

	// Removing a non-existent alias is allowed.
	config.AliasUpdates = []string{"z"}
	config.UpdateAliases()
	assert.Equal(t, map[string]string{"a": "b"}, config.Aliases)

	// Update an existing alias.
	config.AliasUpdates = []string{"a=x"}
	config.UpdateAliases()
	assert.Equal(t, map[string]string{"a": "x"}, config.Aliases)

	// An empty value also removes the alias.
	config.AliasUpdates = []string{"a="}
	config.UpdateAliases()
	assert.Empty(t, config.Aliases)
}

func TestConfigMerge(t *testing.T) {
	config := &Config{Token: "flag_token"}
	saved := &Config{
		Token:   "saved_token",
		Secret:  "saved_secret",
		Aliases: map[string]string{"on": "turnOn"},
		Version: 2,
	}
	config.Merge(saved)

	// Values already set win over the saved ones.
	assert.Equal(t, "flag_token", config.Token)
	assert.Equal(t, "saved_secret", config.Secret)
	assert.Equal(t, "turnOn", config.Aliases["on"])
	assert.Equal(t, 2, config.Version)
}

func TestConfigSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	config := &Config{
		Token:   "t",
		Secret:  "s",
		Aliases: map[string]string{"on": "turnOn"},
		Version: ConfigVersion,
		// Per-invocation options must not persist.
		Clear:    true,
		Commands: []string{"turnOn"},
	}
	require.NoError(t, config.SaveTo(path))

	loaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "t", loaded.Token)
	assert.Equal(t, "s", loaded.Secret)
	assert.Equal(t, map[string]string{"on": "turnOn"}, loaded.Aliases)
	assert.Equal(t, ConfigVersion, loaded.Version)
	assert.False(t, loaded.Clear)
	assert.Empty(t, loaded.Commands)
}

func TestLoadConfigFromMissing(t *testing.T) {
	config, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, config)
}

func TestPrintAliases(t *testing.T) {
	config := &Config{Aliases: map[string]string{
		"on":  "turnOn",
		"off": "turnOff",
		"d":   "devices",
	}}
	var sb strings.Builder
	config.PrintAliases(&sb)
	assert.Equal(t, "d=devices\noff=turnOff\non=turnOn\n", sb.String())
}

func TestClearAuth(t *testing.T) {
	config := &Config{Token: "t", Secret: "s"}
	config.ClearAuth()
	assert.Empty(t, config.Token)
	assert.Empty(t, config.Secret)
}
