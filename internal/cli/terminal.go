// Package cli connects the line editor to a real terminal: raw mode, key decoding and
// ANSI rendering, plus the session loop behind the type command.
package cli

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Terminal owns the raw mode of an input file descriptor.
type Terminal struct {
	in       *os.File
	fd       int
	state    *term.State
	once     sync.Once
	closeErr error
}

// OpenTerminal puts in into raw mode when it is a terminal. Piped input is left alone so
// the same key decoder can read scripted keystrokes. Callers must defer Close.
func OpenTerminal(in *os.File) (*Terminal, error) {
	t := &Terminal{in: in, fd: int(in.Fd())}
	if !term.IsTerminal(t.fd) {
		log.Debug("stdin is not a terminal, reading keys from the stream")
		return t, nil
	}

	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw mode: %w", err)
	}
	t.state = state
	return t, nil
}

// IsRaw reports whether the terminal was put into raw mode.
func (t *Terminal) IsRaw() bool {
	return t.state != nil
}

// Width returns the terminal width in columns, or 0 when unknown.
func (t *Terminal) Width() int {
	w, _, err := term.GetSize(t.fd)
	if err != nil {
		return 0
	}
	return w
}

// Close restores the original terminal mode. Only the first call does anything, so a signal
// handler and a deferred Close may race safely.
func (t *Terminal) Close() error {
	t.once.Do(func() {
		if t.state == nil {
			return
		}
		if err := term.Restore(t.fd, t.state); err != nil {
			t.closeErr = fmt.Errorf("failed to restore terminal: %w", err)
		}
	})
	return t.closeErr
}
