// Package config persists the sprint-tasks credential record and resolves
// runtime settings from flags and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config is the persisted connection record.
type Config struct {
	Domain     string `json:"jira_domain" yaml:"jira_domain"`
	Email      string `json:"jira_email" yaml:"jira_email"`
	APIToken   string `json:"jira_api_token" yaml:"jira_api_token"`
	BoardID    string `json:"board_id" yaml:"board_id"`
	ProjectKey string `json:"project_key,omitempty" yaml:"project_key,omitempty"`
}

// Error reports a failure to create, read, write or parse the config file.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrMissingField is wrapped by Validate and RequireProjectKey.
var ErrMissingField = errors.New("missing required field")

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Domain) == "" {
		missing = append(missing, "jira_domain")
	}
	if strings.TrimSpace(c.Email) == "" {
		missing = append(missing, "jira_email")
	}
	if strings.TrimSpace(c.APIToken) == "" {
		missing = append(missing, "jira_api_token")
	}
	if strings.TrimSpace(c.BoardID) == "" {
		missing = append(missing, "board_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// RequireProjectKey returns the project key or an error when none is set.
// There is no fallback project.
func (c *Config) RequireProjectKey() (string, error) {
	key := strings.TrimSpace(c.ProjectKey)
	if key == "" {
		return "", fmt.Errorf("%w: project_key", ErrMissingField)
	}
	return key, nil
}

// Masked returns a copy safe to print.
func (c Config) Masked() Config {
	c.APIToken = MaskToken(c.APIToken)
	return c
}

// MaskToken keeps the first and last four characters of long tokens.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// Keys accepted by Set.
var Keys = []string{"domain", "email", "token", "board", "project"}

// Set updates one field by its short key.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "domain":
		c.Domain = value
	case "email":
		c.Email = value
	case "token":
		c.APIToken = value
	case "board":
		c.BoardID = value
	case "project":
		c.ProjectKey = value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}
