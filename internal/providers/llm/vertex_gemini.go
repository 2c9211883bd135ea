package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

// VertexGemini uses Vertex AI with application default credentials.
type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	if projectID == "" {
		return nil, ErrNotConfigured
	}
	if location == "" {
		location = "us-central1"
	}

	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &VertexGemini{client: c, model: c.GenerativeModel(modelName)}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		writeParts(&b, cand)
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func (v *VertexGemini) StreamAnswer(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		it := v.model.GenerateContentStream(ctx, vertexgenai.Text(prompt))
		for {
			resp, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				errs <- err
				return
			}

			var b strings.Builder
			for _, cand := range resp.Candidates {
				writeParts(&b, cand)
			}
			if b.Len() > 0 {
				out <- b.String()
			}
		}
	}()

	return out, errs
}

func writeParts(b *strings.Builder, cand *vertexgenai.Candidate) {
	if cand == nil || cand.Content == nil {
		return
	}
	for _, part := range cand.Content.Parts {
		if t, ok := part.(vertexgenai.Text); ok && string(t) != "" {
			b.WriteString(string(t))
		}
	}
}
