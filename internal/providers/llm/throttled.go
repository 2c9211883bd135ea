package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled paces outbound calls to the wrapped provider.
type Throttled struct {
	next Provider
	lim  *rate.Limiter
}

func NewThrottled(next Provider, rps float64, burst int) *Throttled {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Throttled{next: next, lim: rate.NewLimiter(limit, burst)}
}

func (t *Throttled) Generate(ctx context.Context, prompt string) (string, error) {
	if err := t.lim.Wait(ctx); err != nil {
		return "", err
	}
	return t.next.Generate(ctx, prompt)
}

func (t *Throttled) StreamAnswer(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	if err := t.lim.Wait(ctx); err != nil {
		return failed(err)
	}
	return t.next.StreamAnswer(ctx, prompt)
}

func (t *Throttled) Close() error { return t.next.Close() }
