package cli

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kojiishi/switchbot-go/pkg/switchbot"
)

// parseIfExpr splits an "if<sep>condition<sep>then[<sep>else]" branch.
// The separator is whatever non-alphanumeric rune follows "if", so the
// user can pick one that does not clash with the commands. A single
// trailing separator is tolerated. Anything else is not a branch.
func parseIfExpr(text string) (condition, thenCmd, elseCmd string, ok bool) {
	rest, found := strings.CutPrefix(text, "if")
	if !found || rest == "" {
		return "", "", "", false
	}
	sep, size := utf8.DecodeRuneInString(rest)
	if unicode.IsLetter(sep) || unicode.IsDigit(sep) {
		return "", "", "", false
	}
	rest = strings.TrimSuffix(rest[size:], string(sep))
	fields := strings.Split(rest, string(sep))
	switch len(fields) {
	case 2:
		return fields[0], fields[1], "", true
	case 3:
		return fields[0], fields[1], fields[2], true
	}
	return "", "", "", false
}

// executeIfExpr evaluates a branch against live device status and
// executes the selected arm. Returns false when the text is not a
// branch at all.
func (c *Cli) executeIfExpr(ctx context.Context, text string) (bool, error) {
	condition, thenCmd, elseCmd, ok := parseIfExpr(text)
	if !ok {
		return false, nil
	}
	device, expr := c.deviceExpr(condition)
	if err := device.UpdateStatus(ctx, c.service()); err != nil {
		return true, err
	}
	result, err := device.EvalCondition(expr)
	if err != nil {
		return true, err
	}
	command := thenCmd
	if !result {
		command = elseCmd
	}
	slog.Debug("if", "condition", condition, "result", result, "execute", command)
	_, err = c.execute(ctx, command)
	return true, err
}

// deviceExpr resolves the optional "device." prefix of a condition.
// When the prefix is a valid selector the condition targets that
// device; otherwise the whole text is the condition and it targets the
// first selected device.
func (c *Cli) deviceExpr(expr string) (*switchbot.Device, string) {
	if selector, rest, ok := strings.Cut(expr, "."); ok {
		if indexes, err := c.parseDeviceIndexes(selector); err == nil {
			return c.devices().At(indexes[0]), rest
		}
	}
	return c.firstCurrentDevice(), expr
}
