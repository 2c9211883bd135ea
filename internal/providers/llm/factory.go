package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yoockh/careerpilot/config"
)

// APIKey returns the configured key, reading APIKeyFile when the inline key
// is empty.
func APIKey(cfg config.AIConfig) (string, error) {
	if k := strings.TrimSpace(cfg.APIKey); k != "" {
		return k, nil
	}
	if cfg.APIKeyFile == "" {
		return "", nil
	}
	b, err := os.ReadFile(cfg.APIKeyFile)
	if err != nil {
		return "", fmt.Errorf("read api key file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// New builds the configured provider wrapped in a Throttled pacer.
// ErrNotConfigured is returned when credentials are missing.
func New(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch strings.ToLower(cfg.Provider) {
	case "", "genai":
		key, kerr := APIKey(cfg)
		if kerr != nil {
			return nil, kerr
		}
		p, err = NewGenAI(ctx, key, cfg.Model)
	case "langchain":
		key, kerr := APIKey(cfg)
		if kerr != nil {
			return nil, kerr
		}
		p, err = NewLangChain(ctx, key, cfg.Model)
	case "vertex":
		p, err = NewVertexGemini(ctx, cfg.Project, cfg.Location, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewThrottled(p, cfg.RequestsPerSecond, cfg.Burst), nil
}
