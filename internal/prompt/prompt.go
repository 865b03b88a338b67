// Package prompt supplies interactive values to commands that need input
// the user did not pass on the command line.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when the input stream ends before a line is read.
var ErrNoInput = errors.New("no input available")

// Source obtains a string given a prompt message.
type Source interface {
	Ask(ctx context.Context, message string) (string, error)
}

// SecretSource is implemented by sources that can hide what the user types.
type SecretSource interface {
	AskSecret(ctx context.Context, message string) (string, error)
}

// Secret asks src for a value without echo when src supports it.
func Secret(ctx context.Context, src Source, message string) (string, error) {
	if s, ok := src.(SecretSource); ok {
		return s.AskSecret(ctx, message)
	}
	return src.Ask(ctx, message)
}

// LineSource prints the message to Out and reads one line from In.
type LineSource struct {
	in  *bufio.Reader
	out io.Writer

	// pending holds a read abandoned by a cancelled Ask. The next Ask
	// consumes it instead of starting a second reader on the same input.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewLineSource returns a LineSource reading from in and prompting on out.
func NewLineSource(in io.Reader, out io.Writer) *LineSource {
	return &LineSource{in: bufio.NewReader(in), out: out}
}

// Ask returns the trimmed line the user typed, or ctx.Err() if ctx is
// done first.
func (s *LineSource) Ask(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(s.out, message)

	if s.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := s.in.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
		s.pending = ch
	}

	var res readResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-s.pending:
		s.pending = nil
	}

	if res.err != nil {
		if errors.Is(res.err, io.EOF) && res.line != "" {
			return strings.TrimSpace(res.line), nil
		}
		if errors.Is(res.err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("read input: %w", res.err)
	}
	return strings.TrimSpace(res.line), nil
}

// Default picks the terminal form source when stdin and stderr are TTYs and
// a plain line reader otherwise. Prompts go to stderr so stdout stays clean.
func Default() Source {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd())) {
		return NewFormSource()
	}
	return NewLineSource(os.Stdin, os.Stderr)
}
