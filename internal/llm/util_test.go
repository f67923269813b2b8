package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain json untouched",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "fence with language tag",
			input:    "```javascript\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "leading whitespace",
			input:    "  \n```json\n{\"a\": 1}\n```\n",
			expected: `{"a": 1}`,
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "object with commentary",
			input:    "Here is your result: {\"a\": 1} hope that helps!",
			expected: `{"a": 1}`,
		},
		{
			name:     "nested object",
			input:    `prefix {"a": {"b": 2}} suffix`,
			expected: `{"a": {"b": 2}}`,
		},
		{
			name:     "no object",
			input:    "nothing here",
			expected: "",
		},
		{
			name:     "closing before opening",
			input:    "} oops {",
			expected: "",
		},
		{
			name:     "bare object",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONObject(tt.input))
		})
	}
}
