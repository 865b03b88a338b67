// Package jiramock provides an httptest-backed stand-in for the Jira REST API.
package jiramock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// RecordedRequest stores information about a request made to the mock server.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   string
	Headers http.Header
	Body    []byte
}

// JSON decodes the recorded body into v.
func (r RecordedRequest) JSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Response represents a configured response for the mock server.
type Response struct {
	StatusCode int
	Body       interface{}
	Headers    map[string]string
}

// Server records requests and answers them from per-path responses.
// Queued responses for a path are served first, in order, then the
// fixed response set with SetResponse.
type Server struct {
	Server *httptest.Server
	mu     sync.Mutex

	requests  []RecordedRequest
	responses map[string]Response
	queued    map[string][]Response

	authError bool
}

// New starts a mock server. Call Close when done.
func New() *Server {
	m := &Server{
		responses: make(map[string]Response),
		queued:    make(map[string][]Response),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handleRequest))
	return m
}

func (m *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   r.URL.RawQuery,
		Headers: r.Header.Clone(),
		Body:    body,
	})
	authError := m.authError
	resp, found := m.next(r.URL.Path)
	m.mu.Unlock()

	if authError {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"errorMessages": []string{"no mock response for " + r.URL.Path},
		})
		return
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	if s, ok := resp.Body.(string); ok {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, s)
		return
	}
	writeJSON(w, status, resp.Body)
}

// next must be called with mu held.
func (m *Server) next(path string) (Response, bool) {
	if q := m.queued[path]; len(q) > 0 {
		m.queued[path] = q[1:]
		return q[0], true
	}
	resp, ok := m.responses[path]
	return resp, ok
}

// URL returns the mock server URL.
func (m *Server) URL() string {
	return m.Server.URL
}

// Close shuts down the mock server.
func (m *Server) Close() {
	m.Server.Close()
}

// SetResponse configures the response for a path. String bodies are sent raw.
func (m *Server) SetResponse(path string, statusCode int, body interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = Response{StatusCode: statusCode, Body: body}
}

// QueueResponse serves a one-shot response for a path ahead of SetResponse.
func (m *Server) QueueResponse(path string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued[path] = append(m.queued[path], resp)
}

// SetAuthError makes every request fail with 401 Unauthorized.
func (m *Server) SetAuthError(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authError = enabled
}

// Requests returns all recorded requests.
func (m *Server) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// RequestsTo returns the recorded requests for one path.
func (m *Server) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range m.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
