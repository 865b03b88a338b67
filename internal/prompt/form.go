package prompt

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user cancels a terminal prompt.
var ErrAborted = errors.New("prompt cancelled")

// FormSource renders each prompt as a single-field huh form.
type FormSource struct {
	theme *huh.Theme
}

func NewFormSource() *FormSource {
	return &FormSource{theme: huh.ThemeBase()}
}

func (s *FormSource) Ask(ctx context.Context, message string) (string, error) {
	return s.run(ctx, message, huh.EchoModeNormal)
}

// AskSecret hides the typed value, for API tokens.
func (s *FormSource) AskSecret(ctx context.Context, message string) (string, error) {
	return s.run(ctx, message, huh.EchoModePassword)
}

func (s *FormSource) run(ctx context.Context, message string, mode huh.EchoMode) (string, error) {
	var value string
	input := huh.NewInput().
		Title(strings.TrimSuffix(strings.TrimSpace(message), ":")).
		EchoMode(mode).
		Value(&value)

	form := huh.NewForm(huh.NewGroup(input)).WithTheme(s.theme)
	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(value), nil
}
