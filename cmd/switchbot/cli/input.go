package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// UserInput wraps readline for interactive prompts.
type UserInput struct {
	rl *readline.Instance
}

// NewUserInput creates the readline-backed input.
func NewUserInput() (*UserInput, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &UserInput{rl: rl}, nil
}

// SetPrompt changes the prompt shown for the next ReadLine.
func (u *UserInput) SetPrompt(prompt string) {
	u.rl.SetPrompt(prompt)
}

// ReadLine reads one trimmed line. It returns readline.ErrInterrupt on
// Ctrl-C and io.EOF on Ctrl-D, for the caller to handle.
func (u *UserInput) ReadLine() (string, error) {
	line, err := u.rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Stdout returns a writer that coordinates output with the prompt.
// Use this for log output to avoid interfering with the command line.
func (u *UserInput) Stdout() io.Writer {
	return u.rl.Stdout()
}

// Close releases the terminal.
func (u *UserInput) Close() error {
	return u.rl.Close()
}
