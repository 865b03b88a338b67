package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/steveyegge/sprint-tasks/internal/debug"
	"github.com/steveyegge/sprint-tasks/internal/prompt"
)

const (
	appDir   = "sprint-tasks"
	fileName = "config.json"
)

// DefaultPath returns <user config dir>/sprint-tasks/config.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", &Error{Op: "locate", Path: appDir, Err: err}
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Store reads and writes the Config record at Path.
type Store struct {
	Path   string
	Prompt prompt.Source
}

func NewStore(path string, src prompt.Source) *Store {
	return &Store{Path: path, Prompt: src}
}

// Exists reports whether the config file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// LoadOrCreate loads the record, first creating it from prompts when the
// file does not exist yet.
func (s *Store) LoadOrCreate(ctx context.Context) (*Config, error) {
	if _, err := os.Stat(s.Path); errors.Is(err, os.ErrNotExist) {
		cfg, err := s.collect(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.Persist(cfg); err != nil {
			return nil, err
		}
		debug.Noticef("Config file created at: %s\n", s.Path)
	}
	return s.Load()
}

// Load reads and parses the record.
func (s *Store) Load() (*Config, error) {
	data, err := os.ReadFile(s.Path) // #nosec G304 - path is the user's own config file
	if err != nil {
		return nil, &Error{Op: "read", Path: s.Path, Err: err}
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{Op: "parse", Path: s.Path, Err: err}
	}
	return &cfg, nil
}

// Persist overwrites the record, creating the directory if needed.
func (s *Store) Persist(cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0750); err != nil {
		return &Error{Op: "create dir", Path: filepath.Dir(s.Path), Err: err}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &Error{Op: "encode", Path: s.Path, Err: err}
	}
	if err := os.WriteFile(s.Path, append(data, '\n'), 0600); err != nil {
		return &Error{Op: "write", Path: s.Path, Err: err}
	}
	debug.Logf("wrote config %s\n", s.Path)
	return nil
}

func (s *Store) collect(ctx context.Context) (*Config, error) {
	if s.Prompt == nil {
		return nil, &Error{Op: "create", Path: s.Path, Err: errors.New("no input source for first-run setup")}
	}
	cfg := &Config{}
	questions := []struct {
		message string
		secret  bool
		dst     *string
	}{
		{"Enter Jira domain (e.g., your-domain.atlassian.net): ", false, &cfg.Domain},
		{"Enter Jira email: ", false, &cfg.Email},
		{"Enter Jira API token: ", true, &cfg.APIToken},
		{"Enter Board ID: ", false, &cfg.BoardID},
		{"Enter project key (e.g., PROJ): ", false, &cfg.ProjectKey},
	}

	for _, q := range questions {
		var (
			answer string
			err    error
		)
		if q.secret {
			answer, err = prompt.Secret(ctx, s.Prompt, q.message)
		} else {
			answer, err = s.Prompt.Ask(ctx, q.message)
		}
		if err != nil {
			return nil, fmt.Errorf("first-run setup: %w", err)
		}
		*q.dst = answer
	}
	return cfg, nil
}
