// Package jira is a small client for the Jira Agile and issue REST endpoints
// sprint-tasks needs: active sprint lookup, sprint and backlog listings, and
// issue creation.
package jira

import (
	"encoding/json"
	"fmt"
)

// Issue represents a Jira issue as returned by the Agile API.
type Issue struct {
	ID     string `json:"id,omitempty"`
	Key    string `json:"key"`
	Fields Fields `json:"fields"`
}

// Fields contains the issue fields sprint-tasks reads.
type Fields struct {
	Summary string  `json:"summary"`
	Parent  *Parent `json:"parent,omitempty"`
	Status  *Status `json:"status,omitempty"`
}

// Parent is the epic or parent issue of a subtask.
type Parent struct {
	ID     string       `json:"id,omitempty"`
	Key    string       `json:"key,omitempty"`
	Fields ParentFields `json:"fields"`
}

// ParentFields holds the parent fields the server embeds.
type ParentFields struct {
	Summary string `json:"summary"`
}

// Status represents a Jira workflow status.
type Status struct {
	ID             string          `json:"id,omitempty"`
	Name           string          `json:"name"`
	StatusCategory *StatusCategory `json:"statusCategory,omitempty"`
}

// StatusCategory groups statuses into "new", "indeterminate" and "done".
type StatusCategory struct {
	ID   int    `json:"id,omitempty"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// IssueList is the response of the sprint and backlog issue endpoints.
type IssueList struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// Sprint is one entry of a board's sprint listing.
type Sprint struct {
	ID            uint64 `json:"id"`
	State         string `json:"state"`
	Name          string `json:"name"`
	OriginBoardID uint64 `json:"originBoardId,omitempty"`
}

// SprintList is the response of the board sprint endpoint.
type SprintList struct {
	MaxResults int      `json:"maxResults"`
	StartAt    int      `json:"startAt"`
	IsLast     bool     `json:"isLast"`
	Values     []Sprint `json:"values"`
}

// CreateIssueRequest is the request body for creating an issue.
type CreateIssueRequest struct {
	Fields CreateFields `json:"fields"`
}

// CreateFields contains fields for creating an issue. The sprint is sent
// under SprintField, a site-specific custom field id.
type CreateFields struct {
	Project     ProjectRef `json:"project"`
	Summary     string     `json:"summary"`
	Description string     `json:"description"`
	IssueType   TypeRef    `json:"issuetype"`
	SprintField string     `json:"-"`
	Sprint      uint64     `json:"-"`
}

// MarshalJSON adds the sprint custom field next to the static fields.
func (f CreateFields) MarshalJSON() ([]byte, error) {
	type plain CreateFields
	data, err := json.Marshal(plain(f))
	if err != nil {
		return nil, err
	}
	if f.SprintField == "" {
		return data, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	if _, clash := fields[f.SprintField]; clash {
		return nil, fmt.Errorf("sprint field %q collides with a standard field", f.SprintField)
	}
	sprint, err := json.Marshal(f.Sprint)
	if err != nil {
		return nil, err
	}
	fields[f.SprintField] = sprint
	return json.Marshal(fields)
}

// ProjectRef is a reference to a project.
type ProjectRef struct {
	Key string `json:"key"`
}

// TypeRef is a reference by name.
type TypeRef struct {
	Name string `json:"name"`
}

// CreateIssueResponse is the response from creating an issue.
type CreateIssueResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}
