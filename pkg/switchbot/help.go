package switchbot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// HelpURL is the API documentation the command help is scraped from.
const HelpURL = "https://raw.githubusercontent.com/OpenWonderLabs/SwitchBotAPI/refs/heads/main/README.md"

// CommandHelp describes one command a device type accepts. The
// Command may contain human-readable placeholder text and is not
// always sendable as-is.
type CommandHelp struct {
	Command     CommandRequest
	Description string
}

// String formats the command followed by its indented description.
func (h *CommandHelp) String() string {
	var sb strings.Builder
	sb.WriteString(h.Command.String())
	for _, line := range strings.Split(markdownPlainText(h.Description), "\n") {
		sb.WriteString("\n    ")
		sb.WriteString(line)
	}
	return sb.String()
}

// Help is the command documentation scraped from the API README,
// indexed by device type.
type Help struct {
	commands         map[string][]CommandHelp
	commandsIR       map[string][]CommandHelp
	deviceNameByType map[string]string
}

func newHelp() *Help {
	return &Help{
		commands:         map[string][]CommandHelp{},
		commandsIR:       map[string][]CommandHelp{},
		deviceNameByType: map[string]string{},
	}
}

// CommandHelps returns the commands documented for the device's type,
// or nil when the documentation has none.
func (h *Help) CommandHelps(device *Device) []CommandHelp {
	if device.IsRemote() {
		return h.commandHelpsByRemoteType(device.RemoteType())
	}
	return h.commandHelpsByDeviceType(device.DeviceType())
}

func (h *Help) commandHelpsByDeviceType(deviceType string) []CommandHelp {
	if commands, ok := h.commands[deviceType]; ok {
		return commands
	}
	// The README sometimes documents a device under its product name
	// rather than its API device type.
	if alias, ok := h.deviceNameByType[deviceType]; ok {
		if commands, ok := h.commands[alias]; ok {
			return commands
		}
	}
	return nil
}

func (h *Help) commandHelpsByRemoteType(remoteType string) []CommandHelp {
	if commands, ok := h.commandsIR[remoteType]; ok {
		return commands
	}
	// User-defined remotes carry a "DIY " prefix over the base type.
	if base, ok := strings.CutPrefix(remoteType, "DIY "); ok {
		if commands, ok := h.commandsIR[base]; ok {
			return commands
		}
	}
	return nil
}

// finalize resolves the README's shared infrared sections into each
// concrete remote type: the "All ..." commands are prepended and the
// "Others" user-defined button commands appended, so each remote type
// lists its full command set.
func (h *Help) finalize() {
	const allKey = "All home appliance types except Others"
	const otherKey = "Others"
	all := h.commandsIR[allKey]
	others := h.commandsIR[otherKey]
	delete(h.commandsIR, allKey)
	delete(h.commandsIR, otherKey)
	if len(all) == 0 && len(others) == 0 {
		return
	}
	for i := range others {
		// The README marks the user-defined command type as code.
		others[i].Command.CommandType = strings.Trim(others[i].Command.CommandType, "`")
	}
	for name, helps := range h.commandsIR {
		merged := make([]CommandHelp, 0, len(all)+len(helps)+len(others))
		merged = append(merged, all...)
		merged = append(merged, helps...)
		merged = append(merged, others...)
		h.commandsIR[name] = merged
	}
}

// LoadHelp fetches the API README and parses it into a Help.
func LoadHelp(ctx context.Context) (*Help, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, HelpURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", HelpURL, resp.Status)
	}
	return ParseHelp(resp.Body)
}

// ParseHelp parses the API README Markdown.
func ParseHelp(r io.Reader) (*Help, error) {
	loader := helpLoader{help: newHelp()}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		loader.readLine(strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	loader.flushCommandHelps()
	loader.help.finalize()
	return loader.help, nil
}

type helpSection int

const (
	sectionInitial helpSection = iota
	sectionDevices
	sectionStatus
	sectionCommands
	sectionCommandsIR
	sectionScenes
)

var sectionByHeading = map[string]helpSection{
	"## Devices":                         sectionDevices,
	"### Get device status":              sectionStatus,
	"### Send device control commands":   sectionCommands,
	"#### Command set for virtual infrared remote devices": sectionCommandsIR,
	"## Scenes": sectionScenes,
}

// helpLoader is the line-by-line state machine over the README.
type helpLoader struct {
	help              *Help
	section           helpSection
	deviceName        string
	inCommandTable    bool
	commandDeviceType string
	commandHelps      []CommandHelp
}

func (l *helpLoader) readLine(line string) {
	if section, ok := sectionByHeading[line]; ok {
		slog.Debug("help: section", "from", l.section, "to", section)
		l.section = section
		return
	}
	switch l.section {
	case sectionDevices:
		if l.updateDeviceName(line) {
			return
		}
		if l.deviceName == "" {
			return
		}
		if columns, ok := markdownTableColumns(line); ok && len(columns) >= 3 && columns[0] == "deviceType" {
			if deviceType, ok := markdownEm(columns[2]); ok {
				l.addDeviceAlias(deviceType)
			}
		}
	case sectionCommands, sectionCommandsIR:
		if l.updateDeviceName(line) {
			return
		}
		columns, ok := markdownTableColumns(line)
		if !ok {
			l.flushCommandHelps()
			l.inCommandTable = false
			return
		}
		if !l.inCommandTable {
			if len(columns) == 5 && columns[0] == "deviceType" {
				l.inCommandTable = true
			}
			return
		}
		if len(columns) < 5 || strings.HasPrefix(columns[0], "-") {
			return
		}
		if columns[0] != "" && l.commandDeviceType != columns[0] {
			l.flushCommandHelps()
			l.commandDeviceType = columns[0]
		}
		if l.commandDeviceType == "" {
			return
		}
		l.commandHelps = append(l.commandHelps, CommandHelp{
			Command: CommandRequest{
				CommandType: columns[1],
				Command:     columns[2],
				Parameter:   columns[3],
			},
			Description: columns[4],
		})
	}
}

func (l *helpLoader) updateDeviceName(line string) bool {
	if text, ok := strings.CutPrefix(line, "##### "); ok {
		l.deviceName = strings.TrimSpace(text)
		return true
	}
	return false
}

func (l *helpLoader) addDeviceAlias(deviceType string) {
	if l.deviceName == deviceType {
		return
	}
	l.help.deviceNameByType[deviceType] = l.deviceName
}

func (l *helpLoader) flushCommandHelps() {
	if l.commandDeviceType == "" || len(l.commandHelps) == 0 {
		return
	}
	name := l.commandDeviceType
	helps := l.commandHelps
	l.commandDeviceType = ""
	l.commandHelps = nil
	if l.section == sectionCommandsIR {
		// One infrared row can document several remote types at once.
		if names := strings.Split(name, ","); len(names) > 1 {
			for _, name := range names {
				l.addCommandHelps(strings.TrimSpace(name), helps)
			}
			return
		}
	}
	l.addCommandHelps(name, helps)
}

func (l *helpLoader) addCommandHelps(name string, helps []CommandHelp) {
	// The README labels the Lock Pro command set "Lock".
	// https://github.com/OpenWonderLabs/SwitchBotAPI/pull/413
	if name == "Lock" && l.deviceName == "Lock Pro" {
		name = "Lock Pro"
	}
	addTo := l.help.commands
	if l.section == sectionCommandsIR {
		addTo = l.help.commandsIR
	}
	addTo[name] = append(addTo[name], helps...)
}

type commandHelpYAML struct {
	Command     string `yaml:"command"`
	Parameter   string `yaml:"parameter,omitempty"`
	CommandType string `yaml:"commandType,omitempty"`
	Description string `yaml:"description,omitempty"`
}

type helpCacheYAML struct {
	Commands         map[string][]commandHelpYAML `yaml:"commands"`
	CommandsIR       map[string][]commandHelpYAML `yaml:"commandsIR"`
	DeviceNameByType map[string]string            `yaml:"deviceNameByType,omitempty"`
}

func commandHelpsToYAML(helps []CommandHelp) []commandHelpYAML {
	out := make([]commandHelpYAML, len(helps))
	for i, help := range helps {
		out[i] = commandHelpYAML{
			Command:     help.Command.Command,
			Parameter:   help.Command.Parameter,
			CommandType: help.Command.CommandType,
			Description: help.Description,
		}
	}
	return out
}

func commandHelpsFromYAML(helps []commandHelpYAML) []CommandHelp {
	out := make([]CommandHelp, len(helps))
	for i, help := range helps {
		out[i] = CommandHelp{
			Command: CommandRequest{
				Command:     help.Command,
				Parameter:   help.Parameter,
				CommandType: help.CommandType,
			},
			Description: help.Description,
		}
	}
	return out
}

// SaveCache writes the parsed help to a YAML file so later sessions
// skip the README fetch.
func (h *Help) SaveCache(path string) error {
	cache := helpCacheYAML{
		Commands:         map[string][]commandHelpYAML{},
		CommandsIR:       map[string][]commandHelpYAML{},
		DeviceNameByType: h.deviceNameByType,
	}
	for name, helps := range h.commands {
		cache.Commands[name] = commandHelpsToYAML(helps)
	}
	for name, helps := range h.commandsIR {
		cache.CommandsIR[name] = commandHelpsToYAML(helps)
	}
	data, err := yaml.Marshal(&cache)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadHelpCache reads a cache written by SaveCache. A missing file is
// not an error; it returns (nil, nil) so callers fall back to LoadHelp.
func LoadHelpCache(path string) (*Help, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var cache helpCacheYAML
	if err := yaml.Unmarshal(data, &cache); err != nil {
		return nil, err
	}
	help := newHelp()
	for name, helps := range cache.Commands {
		help.commands[name] = commandHelpsFromYAML(helps)
	}
	for name, helps := range cache.CommandsIR {
		help.commandsIR[name] = commandHelpsFromYAML(helps)
	}
	for deviceType, name := range cache.DeviceNameByType {
		help.deviceNameByType[deviceType] = name
	}
	return help, nil
}
