package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s, err := LoadSettings(NewViper())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, s.Timeout)
	assert.Equal(t, DefaultSprintField, s.SprintField)
	assert.Equal(t, 0, s.MaxAuthAttempts)
	assert.Equal(t, 3, s.RateLimitRetries)
	assert.Equal(t, "https", s.Scheme)
	assert.False(t, s.Verbose)
	assert.False(t, s.Quiet)
}

func TestEnvironmentBinding(t *testing.T) {
	tests := []struct {
		envVar string
		value  string
		check  func(t *testing.T, s Settings)
	}{
		{"SPRINT_TASKS_TIMEOUT", "5s", func(t *testing.T, s Settings) { assert.Equal(t, 5*time.Second, s.Timeout) }},
		{"SPRINT_TASKS_SPRINT_FIELD", "customfield_10101", func(t *testing.T, s Settings) { assert.Equal(t, "customfield_10101", s.SprintField) }},
		{"SPRINT_TASKS_MAX_AUTH_ATTEMPTS", "2", func(t *testing.T, s Settings) { assert.Equal(t, 2, s.MaxAuthAttempts) }},
		{"SPRINT_TASKS_SCHEME", "HTTP", func(t *testing.T, s Settings) { assert.Equal(t, "http", s.Scheme) }},
		{"SPRINT_TASKS_CONFIG", "/tmp/st.json", func(t *testing.T, s Settings) { assert.Equal(t, "/tmp/st.json", s.ConfigPath) }},
		{"SPRINT_TASKS_QUIET", "true", func(t *testing.T, s Settings) { assert.True(t, s.Quiet) }},
	}

	for _, tt := range tests {
		t.Run(tt.envVar, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)
			s, err := LoadSettings(NewViper())
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestLoadSettingsRejectsInvalid(t *testing.T) {
	tests := []struct {
		key   string
		value interface{}
	}{
		{KeyTimeout, "0s"},
		{KeySprintField, " "},
		{KeyMaxAuthAttempts, -1},
		{KeyRateLimitRetries, -2},
		{KeyScheme, "ftp"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := NewViper()
			v.Set(tt.key, tt.value)
			_, err := LoadSettings(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestResolvePath(t *testing.T) {
	s := Settings{ConfigPath: "/custom/config.json"}
	got, err := s.ResolvePath()
	require.NoError(t, err)
	assert.Equal(t, "/custom/config.json", got)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	got, err = Settings{}.ResolvePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("sprint-tasks", "config.json"), filepath.Join(filepath.Base(filepath.Dir(got)), filepath.Base(got)))
}
