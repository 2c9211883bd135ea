package utils

import (
	"regexp"
	"strings"
)

// TruncateForLog shortens s to limit runes, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// StripFences removes a surrounding markdown code fence from model output.
func StripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

var tokenRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// FillPlaceholders replaces every {token} that has a value in vars. Tokens
// without a value are kept as-is. Values are inserted verbatim.
func FillPlaceholders(content string, vars map[string]string) string {
	if len(vars) == 0 {
		return content
	}
	return tokenRe.ReplaceAllStringFunc(content, func(m string) string {
		name := m[1 : len(m)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		return m
	})
}
