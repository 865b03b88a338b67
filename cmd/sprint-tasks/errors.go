package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/steveyegge/sprint-tasks/internal/config"
	"github.com/steveyegge/sprint-tasks/internal/jira"
	"github.com/steveyegge/sprint-tasks/internal/prompt"
	"github.com/steveyegge/sprint-tasks/internal/session"
	"github.com/steveyegge/sprint-tasks/internal/tasks"
	"github.com/steveyegge/sprint-tasks/internal/telemetry"
	"github.com/steveyegge/sprint-tasks/internal/ui"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// fail flushes telemetry before exiting; os.Exit skips PersistentPostRun.
func fail(code int) {
	shutdownTelemetry()
	exit(code)
}

// shutdownTelemetry is overridden in tests.
var shutdownTelemetry = func() {
	telemetry.Shutdown(context.Background())
}

// FatalError writes an error message to stderr and exits with code 1.
// Use this for fatal errors that prevent the command from completing.
//
// Example:
//
//	if err := store.Persist(cfg); err != nil {
//	    FatalError("%v", err)
//	}
func FatalError(format string, args ...interface{}) {
	fmt.Fprintln(stderr, ui.RenderFail("Error: "+fmt.Sprintf(format, args...)))
	fail(1)
}

// FatalErrorWithHint writes an error message with a hint to stderr and exits.
// Use this when you can provide an actionable suggestion to fix the error.
//
// Example:
//
//	FatalErrorWithHint("missing required field: project_key", "Run 'sprint-tasks config set project <KEY>'")
func FatalErrorWithHint(message, hint string) {
	fmt.Fprintln(stderr, ui.RenderFail("Error: "+message))
	fmt.Fprintln(stderr, ui.RenderMuted("Hint: "+hint))
	fail(1)
}

// WarnError writes a warning message to stderr and returns.
// Use this for problems that leave the command's result usable, such as an
// unavailable backlog.
func WarnError(format string, args ...interface{}) {
	fmt.Fprintln(stderr, ui.RenderWarn("Warning: "+fmt.Sprintf(format, args...)))
}

// step names the phase an error came from; the same Jira status reads
// differently depending on which request failed.
type step string

const (
	stepResolve step = "resolve"
	stepList    step = "list"
	stepCreate  step = "create"
)

type stepError struct {
	step step
	err  error
}

func (e *stepError) Error() string { return e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

func inStep(s step, err error) error {
	if err == nil {
		return nil
	}
	return &stepError{step: s, err: err}
}

// failure is a rendered fatal error.
type failure struct {
	line string // complete first line, including any prefix
	hint string
}

// describe maps a command error to what the user sees.
func describe(err error) failure {
	var se *stepError
	_ = errors.As(err, &se)

	if status, ok := jira.AsStatusError(err); ok && se != nil {
		switch se.step {
		case stepCreate:
			return failure{line: "Error creating task: " + status.Body}
		case stepResolve:
			if !status.IsAuth() {
				return failure{line: "Error: Failed to fetch sprint. Status: " + status.Status}
			}
		case stepList:
			return failure{line: "Error: Failed to fetch sprint issues. Status: " + status.Status}
		}
	}

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, prompt.ErrAborted):
		return failure{line: "Error: interrupted"}
	case errors.Is(err, session.ErrAuthAttemptsExhausted):
		return failure{
			line: "Error: " + err.Error(),
			hint: "Check jira_email and the API token with 'sprint-tasks config show'",
		}
	case errors.Is(err, jira.ErrNoActiveSprint):
		return failure{
			line: "Error: " + err.Error(),
			hint: "Start a sprint on the board, or choose another board with 'sprint-tasks config set board <ID>'",
		}
	case errors.Is(err, config.ErrMissingField):
		hint := "Run 'sprint-tasks config set <key> <value>' to fill it in"
		if strings.Contains(err.Error(), "project_key") {
			hint = "Run 'sprint-tasks config set project <KEY>'"
		}
		return failure{line: "Error: " + err.Error(), hint: hint}
	case errors.Is(err, tasks.ErrEmptySummary):
		return failure{line: "Error: " + err.Error(), hint: "Pass --summary or type a summary at the prompt"}
	case errors.Is(err, prompt.ErrNoInput):
		return failure{line: "Error: " + err.Error(), hint: "Pass the values as flags when stdin is not interactive"}
	}

	return failure{line: "Error: " + err.Error()}
}

// exitOnError reports err and exits with code 1. A nil err is a no-op.
func exitOnError(err error) {
	if err == nil {
		return
	}
	f := describe(err)
	fmt.Fprintln(stderr, ui.RenderFail(f.line))
	if f.hint != "" {
		fmt.Fprintln(stderr, ui.RenderMuted("Hint: "+f.hint))
	}
	fail(1)
}
