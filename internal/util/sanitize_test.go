package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"clean email", "student@example.edu", "student@example.edu"},
		{"newline in login email", "admin@example.edu\nFAKE login succeeded", "admin@example.edu FAKE login succeeded"},
		{"crlf in user agent", "Mozilla/5.0\r\nX-Forged: yes", "Mozilla/5.0 X-Forged: yes"},
		{"null bytes in path", "/api/v1/auth\x00\x01/login", "/api/v1/auth /login"},
		{"del character", "curl\x7F8.0", "curl 8.0"},
		{"tab counts as control", "a\tb", "a b"},
		{"only control chars", "\x00\x01\x1F\x7F", " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeForLog(tt.input))
		})
	}
}
