package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1       string
		s2       string
		expected int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "ab", 1},
		{"microsoft", "micros0ft", 1},
		{"paypal", "paypa1", 1},
		{"google", "g00gle", 2},
	}

	for _, tt := range tests {
		t.Run(tt.s1+" vs "+tt.s2, func(t *testing.T) {
			distance := levenshteinDistance(tt.s1, tt.s2)
			assert.Equal(t, tt.expected, distance)
		})
	}
}

func TestURLHost(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"http://Example.COM/path", "example.com"},
		{"https://192.168.0.1:8443/login", "192.168.0.1"},
		{"http://paypal.com@evil.example/login", "evil.example"},
		{"https://[2001:db8::1]/x", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, urlHost(tt.url))
		})
	}
}

func TestMatchesDomain(t *testing.T) {
	assert.True(t, matchesDomain("paypal.com", "paypal.com"))
	assert.True(t, matchesDomain("www.paypal.com", "paypal.com"))
	assert.False(t, matchesDomain("notpaypal.com", "paypal.com"))
	assert.False(t, matchesDomain("paypal.com.evil.tk", "paypal.com"))
}

func TestFoldCase(t *testing.T) {
	assert.Equal(t, foldCase("urgent"), foldCase("URGENT"))
	assert.Equal(t, foldCase("straße"), foldCase("STRASSE"))
}
