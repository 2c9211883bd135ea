package llm

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNotConfigured = errors.New("llm provider is not configured")
	ErrEmptyResponse = errors.New("llm returned empty response")
)

type Provider interface {
	// Generate returns the full text response for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// StreamAnswer returns a stream of text chunks (incremental).
	StreamAnswer(ctx context.Context, prompt string) (chunks <-chan string, errs <-chan error)
	Close() error
}

// Collect drains a StreamAnswer result into one string.
func Collect(chunks <-chan string, errs <-chan error) (string, error) {
	var b strings.Builder
	for c := range chunks {
		b.WriteString(c)
	}
	if err := <-errs; err != nil {
		return "", err
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func failed(err error) (<-chan string, <-chan error) {
	out := make(chan string)
	errs := make(chan error, 1)
	errs <- err
	close(out)
	close(errs)
	return out, errs
}
