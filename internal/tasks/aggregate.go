// Package tasks builds the sprint task view and creates sprint tasks.
package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/steveyegge/sprint-tasks/internal/jira"
)

// IssueSource lists the issues the task view is built from.
type IssueSource interface {
	SprintIssues(ctx context.Context, sprintID uint64) ([]jira.Issue, error)
	BacklogIssues(ctx context.Context, boardID string) ([]jira.Issue, error)
}

// Aggregator merges a sprint's issues with the board's open backlog.
type Aggregator struct {
	Source  IssueSource
	BoardID string

	// Filter selects backlog issues; nil means OpenBySummary.
	Filter Filter

	// OnWarning receives non-fatal problems, such as an unavailable backlog.
	OnWarning func(msg string)
}

// Collect returns sprint issues followed by filtered backlog issues, each
// group in server order. Issues present in both groups appear twice.
func (a *Aggregator) Collect(ctx context.Context, sprintID uint64) ([]jira.Issue, error) {
	sprint, err := a.Source.SprintIssues(ctx, sprintID)
	if err != nil {
		return nil, err
	}

	backlog, err := a.Source.BacklogIssues(ctx, a.BoardID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		a.warn(backlogWarning(err))
		return sprint, nil
	}

	filter := a.Filter
	if filter == nil {
		filter = OpenBySummary
	}

	all := make([]jira.Issue, 0, len(sprint)+len(backlog))
	all = append(all, sprint...)
	all = append(all, Apply(backlog, filter)...)
	return all, nil
}

// List collects the task view and writes one line per issue to w.
func (a *Aggregator) List(ctx context.Context, sprintID uint64, w io.Writer) error {
	issues, err := a.Collect(ctx, sprintID)
	if err != nil {
		return err
	}
	return Render(w, issues)
}

func (a *Aggregator) warn(msg string) {
	if a.OnWarning != nil {
		a.OnWarning(msg)
	}
}

func backlogWarning(err error) string {
	if se, ok := jira.AsStatusError(err); ok {
		return fmt.Sprintf("Failed to fetch backlog issues. Status: %s", se.Status)
	}
	return fmt.Sprintf("Failed to fetch backlog issues: %v", err)
}
