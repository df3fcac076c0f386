// Package clipboard copies text to the system clipboard, falling back to
// the OSC 52 terminal escape when no clipboard command works.
package clipboard

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// MethodOSC52 is reported when the terminal escape sequence was used.
const MethodOSC52 = "osc52"

// DefaultCommands are tried in order until one succeeds.
var DefaultCommands = [][]string{
	{"pbcopy"},
	{"wl-copy"},
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
	{"clip.exe"},
}

// Copier copies text to the clipboard.
type Copier struct {
	// Commands are the native clipboard commands to try, in order.
	Commands [][]string

	// Fallback receives the OSC 52 sequence when every command fails.
	// Nil disables the fallback.
	Fallback io.Writer

	lookPath func(file string) (string, error)
	run      func(ctx context.Context, path string, args []string, stdin string) error
}

// New returns a Copier using DefaultCommands. The OSC 52 fallback is written
// to w only when w is a terminal; redirected output never carries the escape.
func New(w io.Writer) *Copier {
	c := &Copier{Commands: DefaultCommands}
	if IsTerminal(w) {
		c.Fallback = w
	}
	return c
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Copy puts text on the clipboard and returns the mechanism that worked.
// It only fails when the native commands and the fallback all fail.
func (c *Copier) Copy(ctx context.Context, text string) (string, error) {
	lookPath := c.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	run := c.run
	if run == nil {
		run = runCommand
	}

	var errs []error
	for _, cmd := range c.Commands {
		if len(cmd) == 0 {
			continue
		}
		path, err := lookPath(cmd[0])
		if err != nil {
			continue
		}
		if err := run(ctx, path, cmd[1:], text); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cmd[0], err))
			continue
		}
		return cmd[0], nil
	}
	if len(errs) == 0 {
		errs = append(errs, errors.New("no clipboard command found"))
	}

	if c.Fallback == nil {
		return "", fmt.Errorf("clipboard unavailable: %w", errors.Join(errs...))
	}
	if _, err := io.WriteString(c.Fallback, OSC52(text)); err != nil {
		errs = append(errs, fmt.Errorf("osc52: %w", err))
		return "", fmt.Errorf("clipboard unavailable: %w", errors.Join(errs...))
	}
	return MethodOSC52, nil
}

// OSC52 returns the terminal escape that sets the clipboard to text.
func OSC52(text string) string {
	return "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
}

func runCommand(ctx context.Context, path string, args []string, stdin string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(stdin)
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
