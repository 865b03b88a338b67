package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. SPRINT_TASKS_TIMEOUT=10s.
const EnvPrefix = "SPRINT_TASKS"

// Setting keys, shared by flags and environment variables.
const (
	KeyConfig           = "config"
	KeyTimeout          = "timeout"
	KeySprintField      = "sprint-field"
	KeyMaxAuthAttempts  = "max-auth-attempts"
	KeyRateLimitRetries = "rate-limit-retries"
	KeyScheme           = "scheme"
	KeyVerbose          = "verbose"
	KeyQuiet            = "quiet"
)

// DefaultSprintField is the Jira Cloud custom field holding sprint membership.
const DefaultSprintField = "customfield_10020"

// Settings are per-invocation knobs that are never written to the config file.
type Settings struct {
	ConfigPath       string
	Timeout          time.Duration
	SprintField      string
	MaxAuthAttempts  int // 0 means keep asking until the token works
	RateLimitRetries int
	Scheme           string
	Verbose          bool
	Quiet            bool
}

// NewViper returns a viper instance with defaults and env binding applied.
// Flags are bound by the caller with BindPFlag.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyConfig, "")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeySprintField, DefaultSprintField)
	v.SetDefault(KeyMaxAuthAttempts, 0)
	v.SetDefault(KeyRateLimitRetries, 3)
	v.SetDefault(KeyScheme, "https")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyQuiet, false)
	return v
}

// LoadSettings reads and validates the settings held by v.
func LoadSettings(v *viper.Viper) (Settings, error) {
	s := Settings{
		ConfigPath:       v.GetString(KeyConfig),
		Timeout:          v.GetDuration(KeyTimeout),
		SprintField:      strings.TrimSpace(v.GetString(KeySprintField)),
		MaxAuthAttempts:  v.GetInt(KeyMaxAuthAttempts),
		RateLimitRetries: v.GetInt(KeyRateLimitRetries),
		Scheme:           strings.ToLower(strings.TrimSpace(v.GetString(KeyScheme))),
		Verbose:          v.GetBool(KeyVerbose),
		Quiet:            v.GetBool(KeyQuiet),
	}

	if s.Timeout <= 0 {
		return s, fmt.Errorf("%s must be positive, got %s", KeyTimeout, s.Timeout)
	}
	if s.SprintField == "" {
		return s, fmt.Errorf("%s must not be empty", KeySprintField)
	}
	if s.MaxAuthAttempts < 0 {
		return s, fmt.Errorf("%s must be >= 0, got %d", KeyMaxAuthAttempts, s.MaxAuthAttempts)
	}
	if s.RateLimitRetries < 0 {
		return s, fmt.Errorf("%s must be >= 0, got %d", KeyRateLimitRetries, s.RateLimitRetries)
	}
	if s.Scheme != "https" && s.Scheme != "http" {
		return s, fmt.Errorf("%s: %q is invalid (valid values: https, http)", KeyScheme, s.Scheme)
	}
	return s, nil
}

// ResolvePath returns the configured file path or the per-user default.
func (s Settings) ResolvePath() (string, error) {
	if s.ConfigPath != "" {
		return s.ConfigPath, nil
	}
	return DefaultPath()
}
