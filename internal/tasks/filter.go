package tasks

import (
	"strings"

	"github.com/steveyegge/sprint-tasks/internal/jira"
)

// Filter decides whether a backlog issue belongs in the task view.
type Filter func(jira.Issue) bool

// closedMarkers are the summary tags teams use to mark finished backlog items.
var closedMarkers = []string{"[done]", "[closed]"}

// OpenBySummary keeps an issue unless its summary carries a [done] or
// [closed] tag in any letter case. It looks at free text only, so an
// untagged finished issue still passes.
func OpenBySummary(issue jira.Issue) bool {
	summary := strings.ToLower(issue.Fields.Summary)
	for _, marker := range closedMarkers {
		if strings.Contains(summary, marker) {
			return false
		}
	}
	return true
}

// OpenByStatusCategory keeps an issue unless Jira reports its status in the
// "done" category. Issues without status data are kept.
func OpenByStatusCategory(issue jira.Issue) bool {
	st := issue.Fields.Status
	if st == nil || st.StatusCategory == nil {
		return true
	}
	return st.StatusCategory.Key != "done"
}

// All combines filters; an issue must pass every one.
func All(filters ...Filter) Filter {
	return func(issue jira.Issue) bool {
		for _, f := range filters {
			if !f(issue) {
				return false
			}
		}
		return true
	}
}

// Apply returns the issues that pass f, preserving order.
func Apply(issues []jira.Issue, f Filter) []jira.Issue {
	if f == nil {
		return issues
	}
	kept := make([]jira.Issue, 0, len(issues))
	for _, issue := range issues {
		if f(issue) {
			kept = append(kept, issue)
		}
	}
	return kept
}
