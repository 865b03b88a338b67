package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/steveyegge/sprint-tasks/internal/config"
	"github.com/steveyegge/sprint-tasks/internal/jira"
	"github.com/steveyegge/sprint-tasks/internal/prompt"
)

// TaskIssueType is the issue type of every created task.
const TaskIssueType = "Task"

// ErrEmptySummary is returned when no summary was given or typed.
var ErrEmptySummary = errors.New("task summary is required")

// IssueCreator submits issue creation requests.
type IssueCreator interface {
	CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreateIssueResponse, error)
}

// NewTask holds the user's input. Nil fields were not given and are prompted for.
type NewTask struct {
	Summary     *string
	Description *string
}

// Creator builds and submits tasks bound to a sprint.
type Creator struct {
	Client      IssueCreator
	Prompt      prompt.Source
	ProjectKey  string
	SprintField string
	Out         io.Writer
}

// Request resolves missing input and builds the creation payload.
func (c *Creator) Request(ctx context.Context, sprintID uint64, task NewTask) (jira.CreateIssueRequest, error) {
	summary, err := c.value(ctx, task.Summary, "Enter task summary: ")
	if err != nil {
		return jira.CreateIssueRequest{}, err
	}
	if strings.TrimSpace(summary) == "" {
		return jira.CreateIssueRequest{}, ErrEmptySummary
	}
	description, err := c.value(ctx, task.Description, "Enter task description (optional): ")
	if err != nil {
		return jira.CreateIssueRequest{}, err
	}

	sprintField := c.SprintField
	if sprintField == "" {
		sprintField = config.DefaultSprintField
	}
	return jira.CreateIssueRequest{Fields: jira.CreateFields{
		Project:     jira.ProjectRef{Key: c.ProjectKey},
		Summary:     summary,
		Description: description,
		IssueType:   jira.TypeRef{Name: TaskIssueType},
		SprintField: sprintField,
		Sprint:      sprintID,
	}}, nil
}

// Create submits the task and reports the new key on Out.
// Any non-2xx response, including 401, is returned to the caller.
func (c *Creator) Create(ctx context.Context, sprintID uint64, task NewTask) (*jira.CreateIssueResponse, error) {
	if c.ProjectKey == "" {
		return nil, fmt.Errorf("create task: %w: project_key", config.ErrMissingField)
	}
	req, err := c.Request(ctx, sprintID, task)
	if err != nil {
		return nil, err
	}
	created, err := c.Client.CreateIssue(ctx, req)
	if err != nil {
		return nil, err
	}
	if c.Out != nil {
		fmt.Fprintf(c.Out, "Successfully created task: %s\n", created.Key)
	}
	return created, nil
}

func (c *Creator) value(ctx context.Context, given *string, message string) (string, error) {
	if given != nil {
		return *given, nil
	}
	if c.Prompt == nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSuffix(message, ": "), prompt.ErrNoInput)
	}
	return c.Prompt.Ask(ctx, message)
}
