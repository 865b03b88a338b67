package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/steveyegge/sprint-tasks/internal/config"
	"github.com/steveyegge/sprint-tasks/internal/debug"
	"github.com/steveyegge/sprint-tasks/internal/jira"
	"github.com/steveyegge/sprint-tasks/internal/prompt"
	"github.com/steveyegge/sprint-tasks/internal/session"
	"github.com/steveyegge/sprint-tasks/internal/tasks"
)

// newPrompt is overridden in tests to script interactive answers.
var newPrompt = prompt.Default

// app carries what a command needs once settings are resolved.
type app struct {
	settings config.Settings
	store    *config.Store
	prompt   prompt.Source
	out      io.Writer
	warn     func(format string, args ...interface{})
}

func newApp(s config.Settings, out io.Writer) (*app, error) {
	path, err := s.ResolvePath()
	if err != nil {
		return nil, err
	}
	src := newPrompt()
	return &app{
		settings: s,
		store:    config.NewStore(path, src),
		prompt:   src,
		out:      out,
		warn:     WarnError,
	}, nil
}

// client builds a Jira client from the current credentials.
func (a *app) client(cfg *config.Config) *jira.Client {
	c := jira.NewClient(cfg.Domain, cfg.Email, cfg.APIToken).
		WithTimeout(a.settings.Timeout).
		WithRateLimitRetries(a.settings.RateLimitRetries).
		WithUserAgent(userAgent())
	c.BaseURL = jira.BaseURL(a.settings.Scheme, cfg.Domain)
	return c
}

// loadConfig returns the record, running first-time setup when needed.
func (a *app) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.store.LoadOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", a.store.Path, err)
	}
	return cfg, nil
}

func (a *app) session(cfg *config.Config) *session.Loop {
	return &session.Loop{
		Config: cfg,
		Resolve: func(ctx context.Context, c *config.Config) (uint64, error) {
			sprint, err := a.client(c).ActiveSprint(ctx, c.BoardID)
			if err != nil {
				return 0, inStep(stepResolve, err)
			}
			debug.Logf("active sprint %d (%s)\n", sprint.ID, sprint.Name)
			return sprint.ID, nil
		},
		Prompt: a.prompt,
		Store:  a.store,
		Policy: session.Policy{MaxAttempts: a.settings.MaxAuthAttempts},
	}
}

// list prints the active sprint's tasks followed by the open backlog.
func (a *app) list(ctx context.Context) error {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	loop := a.session(cfg)
	return loop.Run(ctx, func(ctx context.Context, sprintID uint64) error {
		agg := &tasks.Aggregator{
			Source:    a.client(cfg),
			BoardID:   cfg.BoardID,
			OnWarning: func(msg string) { a.warn("%s", msg) },
		}
		return inStep(stepList, agg.List(ctx, sprintID, a.out))
	})
}

// create adds a task to the active sprint.
func (a *app) create(ctx context.Context, task tasks.NewTask) error {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	project, err := cfg.RequireProjectKey()
	if err != nil {
		return &config.Error{Op: "read", Path: a.store.Path, Err: err}
	}
	loop := a.session(cfg)
	return loop.Run(ctx, func(ctx context.Context, sprintID uint64) error {
		creator := &tasks.Creator{
			Client:      a.client(cfg),
			Prompt:      a.prompt,
			ProjectKey:  project,
			SprintField: a.settings.SprintField,
			Out:         a.out,
		}
		_, err := creator.Create(ctx, sprintID, task)
		return inStep(stepCreate, err)
	})
}

// mustApp builds the app for a command or exits.
func mustApp() *app {
	a, err := newApp(settings, os.Stdout)
	if err != nil {
		FatalError("%v", err)
	}
	return a
}
