// Package debug provides verbose and quiet switches for sprint-tasks diagnostics.
// All output is written to stderr so stdout stays reserved for command data.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	enabled     = os.Getenv("SPRINT_TASKS_DEBUG") != ""
	verboseMode = false
	quietMode   = false

	outMu  sync.Mutex
	output io.Writer = os.Stderr
)

func Enabled() bool {
	return enabled || verboseMode
}

// SetVerbose enables verbose/debug output
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// SetQuiet suppresses informational notices
func SetQuiet(quiet bool) {
	quietMode = quiet
}

// IsQuiet returns true if quiet mode is enabled
func IsQuiet() bool {
	return quietMode
}

// SetOutput redirects diagnostics and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	prev := output
	output = w
	return prev
}

// Logf writes a debug line when verbose output is on.
func Logf(format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(output, format, args...)
}

// Noticef writes an informational line unless quiet mode is on.
// Use it for status chatter such as "Config updated", never for data.
func Noticef(format string, args ...interface{}) {
	if quietMode {
		return
	}
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(output, format, args...)
}
