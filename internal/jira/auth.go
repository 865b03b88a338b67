package jira

import "encoding/base64"

// BasicAuth returns the Authorization header value for Jira Cloud
// email + API token authentication.
func BasicAuth(email, apiToken string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+apiToken))
}
