package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"formatted US number", "+1 (555) 123-4567", "15551234567"},
		{"already digits", "15551234567", "15551234567"},
		{"spaces and dots", "0722 123.456", "0722123456"},
		{"leading plus only", "+40712345678", "40712345678"},
		{"letters stripped", "CALL-0800-NOW", "0800"},
		{"empty", "", ""},
		{"no digits at all", "++--()", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizePhoneIsIdempotent(t *testing.T) {
	once := NormalizePhone("+1 (555) 123-4567")
	assert.Equal(t, once, NormalizePhone(once))
}
