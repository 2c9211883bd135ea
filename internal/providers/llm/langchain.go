package llm

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// LangChain routes prompts through langchaingo's Google AI model.
type LangChain struct {
	model llms.Model
}

func NewLangChain(ctx context.Context, apiKey, model string) (*LangChain, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	m, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &LangChain{model: m}, nil
}

func (l *LangChain) Close() error { return nil }

func (l *LangChain) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt)
	if err != nil {
		return "", err
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return "", ErrEmptyResponse
	}
	return resp, nil
}

func (l *LangChain) StreamAnswer(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		_, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt,
			llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
				select {
				case out <- string(chunk):
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}),
		)
		if err != nil {
			errs <- err
		}
	}()

	return out, errs
}
