package prompt

import (
	"context"
	"sync"
)

// Scripted answers prompts from a fixed list, for tests and
// non-interactive callers. Once the answers run out it returns ErrNoInput.
type Scripted struct {
	mu      sync.Mutex
	answers []string
	asked   []string
}

func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) Ask(_ context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, message)
	if len(s.answers) == 0 {
		return "", ErrNoInput
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next, nil
}

// Asked returns the prompt messages seen so far, in order.
func (s *Scripted) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.asked))
	copy(out, s.asked)
	return out
}
