package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "hello world", limit: 0, expect: ""},
		{name: "shorter than limit", input: "hello", limit: 10, expect: "hello"},
		{name: "truncates", input: "hello world", limit: 5, expect: "hello..."},
		{name: "trims whitespace", input: "  spaced  ", limit: 5, expect: "space..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, TruncateForLog(tt.input, tt.limit))
		})
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripFences(`  {"a":1} `))
}

func TestFillPlaceholders(t *testing.T) {
	vars := map[string]string{"name": "Ada", "company": "{company}x"}

	assert.Equal(t, "Hi Ada from {company}x, {missing}",
		FillPlaceholders("Hi {name} from {company}, {missing}", vars))
	assert.Equal(t, "no tokens", FillPlaceholders("no tokens", nil))
}
