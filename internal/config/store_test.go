package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/sprint-tasks/internal/prompt"
)

func TestLoadOrCreateFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprint-tasks", "config.json")
	src := prompt.NewScripted("example.atlassian.net", "me@example.com", "tok", "7", "PROJ")
	store := NewStore(path, src)

	cfg, err := store.LoadOrCreate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Domain:     "example.atlassian.net",
		Email:      "me@example.com",
		APIToken:   "tok",
		BoardID:    "7",
		ProjectKey: "PROJ",
	}, cfg)
	assert.Len(t, src.Asked(), 5)
	assert.True(t, store.Exists())

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}
}

func TestLoadOrCreateExistingFileSkipsPrompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "jira_domain": "example.atlassian.net",
  "jira_email": "me@example.com",
  "jira_api_token": "tok",
  "board_id": "7",
  "project_key": null
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	src := prompt.NewScripted()

	cfg, err := NewStore(path, src).LoadOrCreate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "7", cfg.BoardID)
	assert.Equal(t, "", cfg.ProjectKey)
	assert.Empty(t, src.Asked())
}

func TestLoadOrCreatePromptExhausted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStore(path, prompt.NewScripted("example.atlassian.net"))

	_, err := store.LoadOrCreate(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, prompt.ErrNoInput)
	assert.False(t, store.Exists())
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewStore(path, nil).Load()

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "parse", cfgErr.Op)
	assert.Equal(t, path, cfgErr.Path)
}

func TestLoadReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := NewStore(path, nil).Load()

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "read", cfgErr.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPersistCreateDirError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	err := NewStore(filepath.Join(blocker, "config.json"), nil).Persist(validConfig())

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "create dir", cfgErr.Op)
}

func TestPersistRoundTripsVerbatim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewStore(path, nil)
	cfg := validConfig()

	require.NoError(t, store.Persist(cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "secret-token-1234", raw["jira_api_token"])
	assert.Equal(t, "PROJ", raw["project_key"])

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadOrCreateWithoutPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := NewStore(path, nil).LoadOrCreate(context.Background())

	var cfgErr *Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "create", cfgErr.Op)
}
