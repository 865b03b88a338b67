package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
)

// ActiveSprint returns the first active sprint of the board.
// A board without one yields ErrNoActiveSprint.
func (c *Client) ActiveSprint(ctx context.Context, boardID string) (_ Sprint, err error) {
	ctx, span, start := c.op(ctx, "ActiveSprint", attribute.String("jira.board", boardID))
	defer func() { c.done(ctx, span, start, err, "ActiveSprint") }()

	path := fmt.Sprintf("/rest/agile/1.0/board/%s/sprint", url.PathEscape(boardID))
	body, err := c.doRequest(ctx, "GET", path, url.Values{"state": {"active"}}, nil)
	if err != nil {
		return Sprint{}, fmt.Errorf("fetch active sprint for board %s: %w", boardID, err)
	}

	var list SprintList
	if err := json.Unmarshal(body, &list); err != nil {
		return Sprint{}, fmt.Errorf("parse sprint response: %w", err)
	}
	if len(list.Values) == 0 {
		return Sprint{}, fmt.Errorf("board %s: %w", boardID, ErrNoActiveSprint)
	}
	return list.Values[0], nil
}
