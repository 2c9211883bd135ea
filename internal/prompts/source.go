package prompts

import (
	"context"
	"time"

	"github.com/yoockh/careerpilot/internal/cache"
	"github.com/yoockh/careerpilot/internal/models"
	pgrepo "github.com/yoockh/careerpilot/internal/repositories/postgres"
	"github.com/yoockh/careerpilot/internal/utils"
)

type Source interface {
	Get(ctx context.Context, name string) (*models.PromptTemplate, error)
	List(ctx context.Context, category string) ([]models.PromptTemplate, error)
}

// StaticSource serves the built-in templates.
type StaticSource struct {
	byName map[string]models.PromptTemplate
	order  []string
}

func NewStaticSource(templates []models.PromptTemplate) *StaticSource {
	s := &StaticSource{byName: make(map[string]models.PromptTemplate, len(templates))}
	for _, t := range templates {
		if _, dup := s.byName[t.Name]; !dup {
			s.order = append(s.order, t.Name)
		}
		s.byName[t.Name] = t
	}
	return s
}

func (s *StaticSource) Get(_ context.Context, name string) (*models.PromptTemplate, error) {
	t, ok := s.byName[name]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &t, nil
}

func (s *StaticSource) List(_ context.Context, category string) ([]models.PromptTemplate, error) {
	out := make([]models.PromptTemplate, 0, len(s.order))
	for _, name := range s.order {
		t := s.byName[name]
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

// RemoteSource reads templates from Postgres through an optional cache.
type RemoteSource struct {
	repo  pgrepo.PromptRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewRemoteSource(repo pgrepo.PromptRepository, c cache.Cache, ttl time.Duration) *RemoteSource {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RemoteSource{repo: repo, cache: c, ttl: ttl}
}

func cacheKey(name string) string { return cache.Key("prompt", name) }

func (s *RemoteSource) Get(ctx context.Context, name string) (*models.PromptTemplate, error) {
	if s.cache != nil {
		var t models.PromptTemplate
		if hit, err := s.cache.GetJSON(ctx, cacheKey(name), &t); err == nil && hit {
			return &t, nil
		}
	}

	t, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKey(name), t, s.ttl)
	}
	return t, nil
}

func (s *RemoteSource) List(ctx context.Context, category string) ([]models.PromptTemplate, error) {
	return s.repo.ListByCategory(ctx, category)
}

// Save upserts a template and drops its cached copy.
func (s *RemoteSource) Save(ctx context.Context, t *models.PromptTemplate) error {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	}
	if err := s.repo.Upsert(ctx, t); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, cacheKey(t.Name))
	}
	return nil
}
