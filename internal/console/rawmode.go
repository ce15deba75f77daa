package console

import (
	"os"

	"golang.org/x/term"
)

// RawMode is the scoped terminal resource described in the design notes:
// acquire on entering execution, guarantee restoration on every exit path.
// A RawMode that never entered raw mode (the zero value, Disabled, or
// EnableStdin on a non-terminal) is always safe to call Restore on (it is
// a no-op).
type RawMode struct {
	fd    int
	state *term.State
}

// Disabled returns a RawMode that never entered raw mode, so Restore on it
// is always a no-op. Used when the caller explicitly opts out of raw mode
// (e.g. piped/non-interactive stdin under a test harness).
func Disabled() *RawMode {
	return &RawMode{}
}

// EnableStdin puts stdin into raw mode (no line buffering, no echo) if it
// is a terminal. If stdin is not a terminal (piped input, a test harness),
// it returns a RawMode whose Restore is a no-op, adapted so redirected
// input doesn't fail outright.
func EnableStdin() (*RawMode, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return &RawMode{fd: fd}, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return &RawMode{fd: fd, state: state}, nil
}

// Restore undoes EnableStdin, restoring the terminal to whatever mode it
// was in before. Safe to call multiple times and safe to call on a
// RawMode that never entered raw mode.
func (r *RawMode) Restore() error {
	if r == nil || r.state == nil {
		return nil
	}
	state := r.state
	r.state = nil
	return term.Restore(r.fd, state)
}
