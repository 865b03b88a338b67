package jiramock

import (
	"fmt"

	"github.com/steveyegge/sprint-tasks/internal/jira"
)

// SprintPath is the active-sprint endpoint path for a board.
func SprintPath(boardID string) string {
	return fmt.Sprintf("/rest/agile/1.0/board/%s/sprint", boardID)
}

// SprintIssuesPath is the sprint issue listing path.
func SprintIssuesPath(sprintID uint64) string {
	return fmt.Sprintf("/rest/agile/1.0/sprint/%d/issue", sprintID)
}

// BacklogPath is the board backlog listing path.
func BacklogPath(boardID string) string {
	return fmt.Sprintf("/rest/agile/1.0/board/%s/backlog", boardID)
}

// CreateIssuePath is the issue creation path.
const CreateIssuePath = "/rest/api/2/issue"

// MakeIssue builds an issue with a key and summary.
func MakeIssue(key, summary string) jira.Issue {
	return jira.Issue{Key: key, Fields: jira.Fields{Summary: summary}}
}

// MakeChildIssue builds an issue whose parent carries a summary.
func MakeChildIssue(key, summary, parentKey, parentSummary string) jira.Issue {
	issue := MakeIssue(key, summary)
	issue.Fields.Parent = &jira.Parent{Key: parentKey, Fields: jira.ParentFields{Summary: parentSummary}}
	return issue
}

// ActiveSprints builds a sprint listing with the given active sprint ids.
func ActiveSprints(ids ...uint64) jira.SprintList {
	list := jira.SprintList{MaxResults: 50, IsLast: true, Values: []jira.Sprint{}}
	for _, id := range ids {
		list.Values = append(list.Values, jira.Sprint{ID: id, State: "active", Name: fmt.Sprintf("Sprint %d", id)})
	}
	return list
}

// Issues wraps issues in an issue listing response.
func Issues(issues ...jira.Issue) jira.IssueList {
	if issues == nil {
		issues = []jira.Issue{}
	}
	return jira.IssueList{MaxResults: jira.MaxResults, Total: len(issues), Issues: issues}
}
