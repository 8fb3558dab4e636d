package switchbot

import (
	"regexp"
	"strings"
)

var (
	brRe = regexp.MustCompile(`(?i)<br\s*/?>`)
	emRe = regexp.MustCompile(`\*([^*]+)\*`)
)

// markdownPlainText converts the subset of Markdown found in command
// descriptions to plain text. Only <br> variants are handled.
func markdownPlainText(markdown string) string {
	return brRe.ReplaceAllString(markdown, "\n")
}

// markdownEm returns the first emphasized span in the text.
func markdownEm(text string) (string, bool) {
	m := emRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// markdownTableColumns splits a Markdown table row into trimmed cells.
// The line must start and end with "|"; anything else is not a row.
func markdownTableColumns(line string) ([]string, bool) {
	if !strings.HasPrefix(line, "|") || !strings.HasSuffix(line, "|") {
		return nil, false
	}
	cells := strings.Split(strings.TrimSuffix(line, "|"), "|")
	if len(cells) < 2 {
		return nil, false
	}
	columns := cells[1:]
	for i, cell := range columns {
		columns[i] = strings.TrimSpace(cell)
	}
	return columns, true
}
