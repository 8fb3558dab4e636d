package switchbot

import (
	"encoding/json"
	"strings"
)

// Default sentinel values for command fields. The SwitchBot API treats
// these as the implicit defaults, so they are omitted from serialized
// requests even when spelled out explicitly.
const (
	DefaultParameter   = "default"
	DefaultCommandType = "command"
)

// CommandRequest is a device control command for the SwitchBot API.
//
// The textual form is "[type/]command[:parameter]"; see ParseCommand.
type CommandRequest struct {
	// Command is the command name, e.g. "turnOn".
	Command string

	// Parameter is the command parameter. Empty or "default" means the
	// API default.
	Parameter string

	// CommandType is the command type. Empty or "command" means the
	// standard command set; "customize" addresses user-defined buttons.
	CommandType string
}

// ParseCommand parses the textual command form "[type/]command[:parameter]".
// Only the first ':' separates the parameter, and only the first '/'
// before it separates the type, so the parameter may itself contain ':'
// or '/'.
func ParseCommand(text string) CommandRequest {
	var cmd CommandRequest
	if name, parameter, ok := strings.Cut(text, ":"); ok {
		cmd.Parameter = parameter
		text = name
	}
	if commandType, name, ok := strings.Cut(text, "/"); ok {
		cmd.CommandType = commandType
		text = name
	}
	cmd.Command = text
	return cmd
}

func canOmitParameter(s string) bool {
	return s == "" || s == DefaultParameter
}

func canOmitCommandType(s string) bool {
	return s == "" || s == DefaultCommandType
}

// String formats the command back into its textual form. Omittable
// fields are dropped, so ParseCommand(c.String()) round-trips any
// command whose fields are not sentinel-equal.
func (c CommandRequest) String() string {
	var sb strings.Builder
	if !canOmitCommandType(c.CommandType) {
		sb.WriteString(c.CommandType)
		sb.WriteByte('/')
	}
	sb.WriteString(c.Command)
	if !canOmitParameter(c.Parameter) {
		sb.WriteByte(':')
		sb.WriteString(c.Parameter)
	}
	return sb.String()
}

// MarshalJSON serializes the command for the SwitchBot API, omitting
// the parameter and command type when they equal their defaults.
func (c CommandRequest) MarshalJSON() ([]byte, error) {
	type wire struct {
		Command     string `json:"command"`
		Parameter   string `json:"parameter,omitempty"`
		CommandType string `json:"commandType,omitempty"`
	}
	w := wire{Command: c.Command}
	if !canOmitParameter(c.Parameter) {
		w.Parameter = c.Parameter
	}
	if !canOmitCommandType(c.CommandType) {
		w.CommandType = c.CommandType
	}
	return json.Marshal(w)
}
