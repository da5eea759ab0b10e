package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"https url", "https://example.com/page", true},
		{"http url", "http://example.com", true},
		{"with query", "https://example.com/search?q=go", true},
		{"surrounding spaces", "  https://example.com  ", true},
		{"missing scheme", "example.com/page", false},
		{"unsupported scheme", "ftp://example.com", false},
		{"missing host", "https://", false},
		{"relative path", "/just/a/path", false},
		{"empty", "", false},
		{"garbage", "ht!tp://%%", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, URL(tt.url))
		})
	}
}

func TestShortcode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"abc", true},
		{"abc123", true},
		{"ABCdef99", true},
		{"aaaaaaaaaaaaaaaaaaaa", true}, // 20 chars, upper bound
		{"ab", false},
		{"has space", false},
		{"toolongtoolongtoolongtoolong", false},
		{"under_score", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, Shortcode(tt.code))
		})
	}
}

func TestValidity(t *testing.T) {
	minutes := func(v int) *int { return &v }

	assert.True(t, Validity(nil), "omitted validity uses the default")
	assert.True(t, Validity(minutes(1)))
	assert.True(t, Validity(minutes(30)))
	assert.True(t, Validity(minutes(MaxValidityMinutes)))

	assert.False(t, Validity(minutes(0)))
	assert.False(t, Validity(minutes(-5)))
	assert.False(t, Validity(minutes(MaxValidityMinutes+1)))
}
