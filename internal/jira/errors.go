package jira

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoActiveSprint is returned when a board has no sprint in the active state.
var ErrNoActiveSprint = errors.New("no active sprint")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jira API returned %s for %s %s: %s", e.Status, e.Method, e.Path, e.Body)
}

// IsAuth reports whether the server rejected the credentials.
func (e *StatusError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsAuthFailure reports whether err wraps a 401 StatusError.
func IsAuthFailure(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.IsAuth()
}

// AsStatusError unwraps err to a StatusError if it holds one.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
