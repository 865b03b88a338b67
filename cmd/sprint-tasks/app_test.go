package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/sprint-tasks/internal/config"
	"github.com/steveyegge/sprint-tasks/internal/debug"
	"github.com/steveyegge/sprint-tasks/internal/jira"
	"github.com/steveyegge/sprint-tasks/internal/prompt"
	"github.com/steveyegge/sprint-tasks/internal/tasks"
	"github.com/steveyegge/sprint-tasks/internal/testutil/jiramock"
)

type testApp struct {
	*app
	out      *bytes.Buffer
	notices  *bytes.Buffer
	warnings []string
	src      *prompt.Scripted
}

func testSettings(path string) config.Settings {
	return config.Settings{
		ConfigPath:       path,
		Timeout:          5 * time.Second,
		SprintField:      config.DefaultSprintField,
		RateLimitRetries: 0,
		Scheme:           "https",
	}
}

// newTestApp points a config file at the mock server. A nil cfg leaves the
// file absent so first-run setup kicks in.
func newTestApp(t *testing.T, cfg *config.Config, answers ...string) *testApp {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sprint-tasks", "config.json")
	src := prompt.NewScripted(answers...)

	ta := &testApp{out: &bytes.Buffer{}, notices: &bytes.Buffer{}, src: src}
	prev := debug.SetOutput(ta.notices)
	t.Cleanup(func() { debug.SetOutput(prev) })

	ta.app = &app{
		settings: testSettings(path),
		store:    config.NewStore(path, src),
		prompt:   src,
		out:      ta.out,
		warn: func(format string, args ...interface{}) {
			ta.warnings = append(ta.warnings, fmt.Sprintf(format, args...))
		},
	}
	if cfg != nil {
		require.NoError(t, ta.store.Persist(cfg))
	}
	return ta
}

func mockConfig(mock *jiramock.Server) *config.Config {
	return &config.Config{
		Domain:     mock.URL(),
		Email:      "me@example.com",
		APIToken:   "token-1234567890",
		BoardID:    "7",
		ProjectKey: "A",
	}
}

func serveListScenario(mock *jiramock.Server) {
	mock.SetResponse(jiramock.SprintPath("7"), http.StatusOK, jiramock.ActiveSprints(42))
	mock.SetResponse(jiramock.SprintIssuesPath(42), http.StatusOK, jiramock.Issues(
		jiramock.MakeIssue("A-1", "Fix bug"),
	))
	mock.SetResponse(jiramock.BacklogPath("7"), http.StatusOK, jiramock.Issues(
		jiramock.MakeIssue("A-2", "[Done] old"),
		jiramock.MakeIssue("A-3", "New idea"),
	))
}

func TestAppList(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	serveListScenario(mock)

	ta := newTestApp(t, mockConfig(mock))
	require.NoError(t, ta.list(context.Background()))

	assert.Equal(t, "A-1\tFix bug\nA-3\tNew idea\n", ta.out.String())
	assert.Empty(t, ta.warnings)

	sprintReq := mock.RequestsTo(jiramock.SprintPath("7"))
	require.Len(t, sprintReq, 1)
	assert.Equal(t, "state=active", sprintReq[0].Query)
	assert.Equal(t, jira.BasicAuth("me@example.com", "token-1234567890"), sprintReq[0].Headers.Get("Authorization"))
	assert.Equal(t, userAgent(), sprintReq[0].Headers.Get("User-Agent"))
	assert.Equal(t, "maxResults=1000", mock.RequestsTo(jiramock.SprintIssuesPath(42))[0].Query)
	assert.Equal(t, "maxResults=1000", mock.RequestsTo(jiramock.BacklogPath("7"))[0].Query)
}

func TestAppListBacklogFailureWarns(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	serveListScenario(mock)
	mock.SetResponse(jiramock.BacklogPath("7"), http.StatusServiceUnavailable, "maintenance")

	ta := newTestApp(t, mockConfig(mock))
	require.NoError(t, ta.list(context.Background()))

	assert.Equal(t, "A-1\tFix bug\n", ta.out.String())
	assert.Equal(t, []string{"Failed to fetch backlog issues. Status: 503 Service Unavailable"}, ta.warnings)
}

func TestAppListSprintIssuesFailure(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	serveListScenario(mock)
	mock.SetResponse(jiramock.SprintIssuesPath(42), http.StatusInternalServerError, "oops")

	ta := newTestApp(t, mockConfig(mock))
	err := ta.list(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Error: Failed to fetch sprint issues. Status: 500 Internal Server Error", describe(err).line)
	assert.Empty(t, ta.out.String())
}

func TestAppListRotatesRejectedToken(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	serveListScenario(mock)
	mock.QueueResponse(jiramock.SprintPath("7"), jiramock.Response{StatusCode: http.StatusUnauthorized, Body: "nope"})

	ta := newTestApp(t, mockConfig(mock), "fresh-token-abcdef")
	require.NoError(t, ta.list(context.Background()))

	assert.Equal(t, "A-1\tFix bug\nA-3\tNew idea\n", ta.out.String())
	assert.Contains(t, ta.notices.String(), "Current API token appears to be invalid or expired.")
	assert.Contains(t, ta.notices.String(), "Config updated with new API token.")

	saved, err := ta.store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-token-abcdef", saved.APIToken)

	issuesReq := mock.RequestsTo(jiramock.SprintIssuesPath(42))
	require.Len(t, issuesReq, 1)
	assert.Equal(t, jira.BasicAuth("me@example.com", "fresh-token-abcdef"), issuesReq[0].Headers.Get("Authorization"))
}

func TestAppListSprintStatusFailure(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	mock.SetResponse(jiramock.SprintPath("7"), http.StatusNotFound, `{"errorMessages":["Board does not exist"]}`)

	ta := newTestApp(t, mockConfig(mock))
	err := ta.list(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Error: Failed to fetch sprint. Status: 404 Not Found", describe(err).line)
	assert.Empty(t, ta.src.Asked())
}

func TestAppListNoActiveSprint(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	mock.SetResponse(jiramock.SprintPath("7"), http.StatusOK, jiramock.ActiveSprints())

	ta := newTestApp(t, mockConfig(mock))
	err := ta.list(context.Background())
	assert.ErrorIs(t, err, jira.ErrNoActiveSprint)
	assert.NotEmpty(t, describe(err).hint)
}

func TestAppFirstRunSetup(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	serveListScenario(mock)

	ta := newTestApp(t, nil, mock.URL(), "me@example.com", "first-token-12345", "7", "A")
	require.NoError(t, ta.list(context.Background()))

	assert.Equal(t, []string{
		"Enter Jira domain (e.g., your-domain.atlassian.net): ",
		"Enter Jira email: ",
		"Enter Jira API token: ",
		"Enter Board ID: ",
		"Enter project key (e.g., PROJ): ",
	}, ta.src.Asked())
	assert.Contains(t, ta.notices.String(), "Config file created at: "+ta.store.Path)
	assert.Equal(t, "A-1\tFix bug\nA-3\tNew idea\n", ta.out.String())

	info, err := os.Stat(ta.store.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestAppCreate(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	mock.SetResponse(jiramock.SprintPath("7"), http.StatusOK, jiramock.ActiveSprints(42))
	mock.SetResponse(jiramock.CreateIssuePath, http.StatusCreated, jira.CreateIssueResponse{ID: "10009", Key: "A-9"})

	ta := newTestApp(t, mockConfig(mock))
	summary, description := "Write docs", ""
	require.NoError(t, ta.create(context.Background(), tasks.NewTask{Summary: &summary, Description: &description}))

	assert.Equal(t, "Successfully created task: A-9\n", ta.out.String())
	reqs := mock.RequestsTo(jiramock.CreateIssuePath)
	require.Len(t, reqs, 1)
	assert.Equal(t, "POST", reqs[0].Method)

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	fields := body["fields"]
	assert.Equal(t, float64(42), fields["customfield_10020"])
	assert.Equal(t, map[string]interface{}{"name": "Task"}, fields["issuetype"])
	assert.Equal(t, map[string]interface{}{"key": "A"}, fields["project"])
	assert.Equal(t, "", fields["description"])
}

func TestAppCreateCustomSprintField(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	mock.SetResponse(jiramock.SprintPath("7"), http.StatusOK, jiramock.ActiveSprints(42))
	mock.SetResponse(jiramock.CreateIssuePath, http.StatusCreated, jira.CreateIssueResponse{Key: "A-10"})

	ta := newTestApp(t, mockConfig(mock), "Prompted summary", "")
	ta.settings.SprintField = "customfield_10101"
	require.NoError(t, ta.create(context.Background(), tasks.NewTask{}))

	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(mock.RequestsTo(jiramock.CreateIssuePath)[0].Body, &body))
	assert.Equal(t, float64(42), body["fields"]["customfield_10101"])
	assert.NotContains(t, body["fields"], "customfield_10020")
	assert.Equal(t, "Prompted summary", body["fields"]["summary"])
}

func TestAppCreateFailureShowsBody(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	mock.SetResponse(jiramock.SprintPath("7"), http.StatusOK, jiramock.ActiveSprints(42))
	mock.SetResponse(jiramock.CreateIssuePath, http.StatusBadRequest, `{"errors":{"summary":"required"}}`)

	ta := newTestApp(t, mockConfig(mock))
	summary := "x"
	err := ta.create(context.Background(), tasks.NewTask{Summary: &summary, Description: &summary})
	require.Error(t, err)
	assert.Equal(t, `Error creating task: {"errors":{"summary":"required"}}`, describe(err).line)
	assert.Empty(t, ta.out.String())
}

func TestAppCreateUnauthorizedIsTerminal(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	mock.SetResponse(jiramock.SprintPath("7"), http.StatusOK, jiramock.ActiveSprints(42))
	mock.SetResponse(jiramock.CreateIssuePath, http.StatusUnauthorized, "expired")

	ta := newTestApp(t, mockConfig(mock), "should-not-be-read")
	summary := "x"
	err := ta.create(context.Background(), tasks.NewTask{Summary: &summary, Description: &summary})

	assert.True(t, jira.IsAuthFailure(err))
	assert.Equal(t, "Error creating task: expired", describe(err).line)
	assert.Empty(t, ta.src.Asked())
	assert.Len(t, mock.RequestsTo(jiramock.SprintPath("7")), 1)
}

func TestAppCreateRequiresProjectKey(t *testing.T) {
	mock := jiramock.New()
	defer mock.Close()
	cfg := mockConfig(mock)
	cfg.ProjectKey = ""

	ta := newTestApp(t, cfg)
	err := ta.create(context.Background(), tasks.NewTask{})
	assert.ErrorIs(t, err, config.ErrMissingField)

	var cfgErr *config.Error
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Run 'sprint-tasks config set project <KEY>'", describe(err).hint)
	assert.Empty(t, mock.Requests())
}

func TestAppLoadConfigIncomplete(t *testing.T) {
	ta := newTestApp(t, &config.Config{Domain: "example.atlassian.net"})
	_, err := ta.loadConfig(context.Background())
	assert.ErrorIs(t, err, config.ErrMissingField)
	assert.Contains(t, err.Error(), "jira_email")
}

func TestAppClientHonorsSettings(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.settings.Scheme = "http"
	ta.settings.Timeout = 3 * time.Second

	c := ta.client(&config.Config{Domain: "localhost:8080", Email: "e", APIToken: "t"})
	assert.Equal(t, "http://localhost:8080", c.BaseURL)
	assert.Equal(t, 3*time.Second, c.HTTPClient.Timeout)
	assert.Equal(t, userAgent(), c.UserAgent)
}
