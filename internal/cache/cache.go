package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores JSON values. Prompt templates and saved question sets are
// read through it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Key joins parts with ':'; empty parts are kept so positions stay stable.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
