package tasks

import (
	"bufio"
	"io"

	"github.com/steveyegge/sprint-tasks/internal/jira"
)

// FormatLine renders "<parent>: KEY\tsummary". The parent prefix uses the
// parent's summary, or its key when the summary is empty, and is omitted
// for top-level issues.
func FormatLine(issue jira.Issue) string {
	prefix := ""
	if p := issue.Fields.Parent; p != nil {
		switch {
		case p.Fields.Summary != "":
			prefix = p.Fields.Summary + ": "
		case p.Key != "":
			prefix = p.Key + ": "
		}
	}
	return prefix + issue.Key + "\t" + issue.Fields.Summary
}

// Render writes one line per issue.
func Render(w io.Writer, issues []jira.Issue) error {
	bw := bufio.NewWriter(w)
	for _, issue := range issues {
		if _, err := bw.WriteString(FormatLine(issue) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
