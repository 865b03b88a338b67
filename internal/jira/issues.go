package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
)

var pageQuery = url.Values{"maxResults": {strconv.Itoa(MaxResults)}}

// SprintIssues returns the first page of issues in the sprint, in server order.
func (c *Client) SprintIssues(ctx context.Context, sprintID uint64) (_ []Issue, err error) {
	ctx, span, start := c.op(ctx, "SprintIssues", attribute.Int64("jira.sprint", int64(sprintID)))
	defer func() { c.done(ctx, span, start, err, "SprintIssues") }()

	path := fmt.Sprintf("/rest/agile/1.0/sprint/%d/issue", sprintID)
	issues, err := c.listIssues(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch sprint %d issues: %w", sprintID, err)
	}
	return issues, nil
}

// BacklogIssues returns the first page of the board's backlog, in server order.
func (c *Client) BacklogIssues(ctx context.Context, boardID string) (_ []Issue, err error) {
	ctx, span, start := c.op(ctx, "BacklogIssues", attribute.String("jira.board", boardID))
	defer func() { c.done(ctx, span, start, err, "BacklogIssues") }()

	path := fmt.Sprintf("/rest/agile/1.0/board/%s/backlog", url.PathEscape(boardID))
	issues, err := c.listIssues(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("fetch backlog for board %s: %w", boardID, err)
	}
	return issues, nil
}

func (c *Client) listIssues(ctx context.Context, path string) ([]Issue, error) {
	body, err := c.doRequest(ctx, "GET", path, pageQuery, nil)
	if err != nil {
		return nil, err
	}
	var list IssueList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parse issue list: %w", err)
	}
	return list.Issues, nil
}

// CreateIssue submits a new issue and returns the server-assigned key.
func (c *Client) CreateIssue(ctx context.Context, req CreateIssueRequest) (_ *CreateIssueResponse, err error) {
	ctx, span, start := c.op(ctx, "CreateIssue", attribute.String("jira.project", req.Fields.Project.Key))
	defer func() { c.done(ctx, span, start, err, "CreateIssue") }()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal create request: %w", err)
	}

	body, err := c.doRequest(ctx, "POST", "/rest/api/2/issue", nil, data)
	if err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}

	var created CreateIssueResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("parse create response: %w", err)
	}
	return &created, nil
}
