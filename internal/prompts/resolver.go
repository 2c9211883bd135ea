// Package prompts resolves named prompt templates. Sources are consulted in
// order (normally the database, then the built-in table) and the first
// active template wins.
package prompts

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/yoockh/careerpilot/internal/models"
	"github.com/yoockh/careerpilot/internal/utils"
)

type Resolver struct {
	sources []Source
	log     logrus.FieldLogger
}

func NewResolver(log logrus.FieldLogger, sources ...Source) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{sources: sources, log: log}
}

func (r *Resolver) Get(ctx context.Context, name string) (*models.PromptTemplate, error) {
	const op = "PromptResolver.Get"

	if name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name is required", nil)
	}

	var lastErr error
	for i, src := range r.sources {
		t, err := src.Get(ctx, name)
		if err == nil && t != nil && t.IsActive {
			return t, nil
		}
		if err == nil {
			err = utils.ErrNotFound
		}
		lastErr = err
		r.log.WithFields(logrus.Fields{"prompt": name, "source": i}).WithError(err).Debug("prompt source miss")
	}
	return nil, utils.E(utils.CodeNotFound, op, "prompt not found", lastErr)
}

// List merges sources by name; earlier sources win. A failing source is skipped.
func (r *Resolver) List(ctx context.Context, category string) ([]models.PromptTemplate, error) {
	seen := map[string]struct{}{}
	out := []models.PromptTemplate{}
	for i, src := range r.sources {
		rows, err := src.List(ctx, category)
		if err != nil {
			r.log.WithFields(logrus.Fields{"category": category, "source": i}).WithError(err).Warn("prompt source list failed")
			continue
		}
		for _, t := range rows {
			if _, ok := seen[t.Name]; ok || !t.IsActive {
				continue
			}
			seen[t.Name] = struct{}{}
			out = append(out, t)
		}
	}
	return out, nil
}

// Render resolves name and fills vars. When no source has the template the
// caller's literal fallback is rendered instead.
func (r *Resolver) Render(ctx context.Context, name string, vars map[string]string, fallback string) string {
	content := fallback
	if t, err := r.Get(ctx, name); err == nil {
		content = t.Content
	} else {
		r.log.WithField("prompt", name).WithError(err).Warn("using literal prompt fallback")
	}
	return Render(content, vars)
}

// Render substitutes {token} placeholders verbatim. Tokens without a value
// are left in place. Values are not escaped.
func Render(content string, vars map[string]string) string {
	return utils.FillPlaceholders(content, vars)
}
