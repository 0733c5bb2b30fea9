// Package logger prints pipeline diagnostics to stderr when the
// --verbose flag is set. It is intentionally minimal: the CLI output
// itself goes through cobra, this package only narrates what the
// retrieval and generation layers are doing.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var state = struct {
	sync.RWMutex
	verbose bool
	out     io.Writer
}{out: os.Stderr}

// SetVerbose turns diagnostic output on or off.
func SetVerbose(v bool) {
	state.Lock()
	state.verbose = v
	state.Unlock()
}

// IsVerbose reports whether diagnostic output is enabled.
func IsVerbose() bool {
	state.RLock()
	defer state.RUnlock()
	return state.verbose
}

// SetOutput redirects diagnostic output, primarily for tests.
func SetOutput(w io.Writer) {
	state.Lock()
	state.out = w
	state.Unlock()
}

func emit(tag, format string, args ...any) {
	state.RLock()
	defer state.RUnlock()
	if !state.verbose {
		return
	}
	fmt.Fprintf(state.out, tag+" "+format+"\n", args...)
}

// Section prints a named divider, used to mark pipeline stages.
func Section(name string) {
	state.RLock()
	defer state.RUnlock()
	if !state.verbose {
		return
	}
	fmt.Fprintf(state.out, "\n=== %s ===\n", name)
}

// Debug prints low-level detail.
func Debug(format string, args ...any) { emit("[DEBUG]", format, args...) }

// Info prints progress messages.
func Info(format string, args ...any) { emit("[INFO]", format, args...) }

// Warn prints recoverable problems.
func Warn(format string, args ...any) { emit("[WARN]", format, args...) }
