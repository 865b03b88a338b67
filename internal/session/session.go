// Package session drives the credential retry loop around sprint resolution.
//
// The loop resolves the board's active sprint with the current config. When
// Jira rejects the token it asks for a new one, persists it, and resolves
// again. Once a sprint id is known the requested operation runs exactly once.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/steveyegge/sprint-tasks/internal/config"
	"github.com/steveyegge/sprint-tasks/internal/debug"
	"github.com/steveyegge/sprint-tasks/internal/jira"
	"github.com/steveyegge/sprint-tasks/internal/prompt"
)

// ErrAuthAttemptsExhausted is returned when Policy.MaxAttempts resolutions
// were all rejected as unauthorized.
var ErrAuthAttemptsExhausted = errors.New("authentication attempts exhausted")

// State is a step of the loop.
type State int

const (
	Resolving State = iota
	AwaitingCredential
	Dispatching
	Done
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "resolving"
	case AwaitingCredential:
		return "awaiting-credential"
	case Dispatching:
		return "dispatching"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	invalidTokenNotice = "Current API token appears to be invalid or expired.\n"
	tokenPrompt        = "Enter new Jira API token: "
	tokenUpdatedNotice = "Config updated with new API token.\n"
	emptyTokenNotice   = "API token must not be empty.\n"
)

// Policy bounds the loop. MaxAttempts 0 keeps asking until a token works.
type Policy struct {
	MaxAttempts int
}

// Resolver finds the active sprint using the credentials in cfg.
// Credentials are read on every call, so a rotated token takes effect.
type Resolver func(ctx context.Context, cfg *config.Config) (uint64, error)

// Dispatcher runs the requested operation against a resolved sprint.
type Dispatcher func(ctx context.Context, sprintID uint64) error

// Persister writes the updated config record.
type Persister interface {
	Persist(cfg *config.Config) error
}

// Loop holds everything the retry loop touches.
type Loop struct {
	Config  *config.Config
	Resolve Resolver
	Prompt  prompt.Source
	Store   Persister
	Policy  Policy

	// OnTransition, if set, observes every state change.
	OnTransition func(from, to State)

	state    State
	attempts int
}

// Attempts is the number of resolution attempts made so far.
func (l *Loop) Attempts() int {
	return l.attempts
}

// State is the current state.
func (l *Loop) State() State {
	return l.state
}

// Run resolves the sprint, recovering from rejected tokens, and then runs
// dispatch once. An error from dispatch is returned as is and does not
// re-enter the loop.
func (l *Loop) Run(ctx context.Context, dispatch Dispatcher) error {
	if l.Config == nil || l.Resolve == nil {
		return errors.New("session: config and resolver are required")
	}
	l.state = Resolving
	l.attempts = 0

	var sprintID uint64
	for {
		switch l.state {
		case Resolving:
			if err := ctx.Err(); err != nil {
				return err
			}
			l.attempts++
			id, err := l.Resolve(ctx, l.Config)
			switch {
			case err == nil:
				sprintID = id
				l.moveTo(Dispatching)
			case jira.IsAuthFailure(err):
				if l.Policy.MaxAttempts > 0 && l.attempts >= l.Policy.MaxAttempts {
					return fmt.Errorf("%w after %d attempts: %w", ErrAuthAttemptsExhausted, l.attempts, err)
				}
				l.moveTo(AwaitingCredential)
			default:
				return err
			}

		case AwaitingCredential:
			if err := l.rotateToken(ctx); err != nil {
				return err
			}
			l.moveTo(Resolving)

		case Dispatching:
			err := dispatch(ctx, sprintID)
			l.moveTo(Done)
			return err

		default:
			return nil
		}
	}
}

func (l *Loop) rotateToken(ctx context.Context) error {
	if l.Prompt == nil {
		return fmt.Errorf("read new API token: %w", prompt.ErrNoInput)
	}
	debug.Noticef(invalidTokenNotice)
	token, err := l.readToken(ctx)
	if err != nil {
		return err
	}
	l.Config.APIToken = token

	if l.Store != nil {
		if err := l.Store.Persist(l.Config); err != nil {
			return err
		}
	}
	debug.Noticef(tokenUpdatedNotice)
	return nil
}

// readToken asks until a non-blank token is typed or input fails.
func (l *Loop) readToken(ctx context.Context) (string, error) {
	for {
		token, err := prompt.Secret(ctx, l.Prompt, tokenPrompt)
		if err != nil {
			return "", fmt.Errorf("read new API token: %w", err)
		}
		if token = strings.TrimSpace(token); token != "" {
			return token, nil
		}
		debug.Noticef(emptyTokenNotice)
	}
}

func (l *Loop) moveTo(next State) {
	prev := l.state
	l.state = next
	debug.Logf("session: %s -> %s (attempt %d)\n", prev, next, l.attempts)
	if l.OnTransition != nil {
		l.OnTransition(prev, next)
	}
}
