package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/steveyegge/sprint-tasks/internal/config"
	"github.com/steveyegge/sprint-tasks/internal/debug"
	"github.com/steveyegge/sprint-tasks/internal/telemetry"
	"github.com/steveyegge/sprint-tasks/internal/ui"
)

func setupSignalContext() {
	if rootCtx != nil && rootCtx.Err() == nil {
		return
	}
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// getRootContext returns the signal-aware context, or Background before
// PersistentPreRun has run.
func getRootContext() context.Context {
	if rootCtx == nil {
		return context.Background()
	}
	return rootCtx
}

// applySettings resolves flags and SPRINT_TASKS_* variables and applies
// the output switches.
func applySettings() {
	s, err := config.LoadSettings(v)
	if err != nil {
		FatalError("%v", err)
	}
	settings = s

	debug.SetVerbose(settings.Verbose)
	debug.SetQuiet(settings.Quiet)
	ui.Init()
	debug.Logf("settings: timeout=%s sprint-field=%s max-auth-attempts=%d rate-limit-retries=%d scheme=%s\n",
		settings.Timeout, settings.SprintField, settings.MaxAuthAttempts, settings.RateLimitRetries, settings.Scheme)
}

func initTelemetry() {
	if err := telemetry.Init(getRootContext(), "sprint-tasks", Version); err != nil {
		WarnError("telemetry disabled: %v", err)
	}
}
