package stt

import (
	"context"
	"strings"
)

type Provider interface {
	Transcribe(ctx context.Context, audio []byte, language string) (text string, confidence float64, err error)
	Close() error
}

// NormalizeLanguage maps short codes to BCP-47 tags. Empty means en-US.
func NormalizeLanguage(v string) string {
	v = strings.TrimSpace(v)
	switch strings.ToLower(v) {
	case "":
		return "en-US"
	case "en", "en-us":
		return "en-US"
	case "id", "id-id":
		return "id-ID"
	case "es", "es-es":
		return "es-ES"
	default:
		return v
	}
}
