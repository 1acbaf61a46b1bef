package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	at := func(s string) time.Time {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatal(err)
		}
		return ts
	}

	tests := []struct {
		name     string
		when     string
		expected string
	}{
		{"seconds", "2024-06-15T11:59:30Z", "just now"},
		{"one minute", "2024-06-15T11:59:00Z", "1 minute ago"},
		{"minutes", "2024-06-15T11:15:00Z", "45 minutes ago"},
		{"one hour", "2024-06-15T11:00:00Z", "1 hour ago"},
		{"hours", "2024-06-15T07:00:00Z", "5 hours ago"},
		{"one day", "2024-06-14T12:00:00Z", "1 day ago"},
		{"days", "2024-06-05T12:00:00Z", "10 days ago"},
		{"one month", "2024-05-15T12:00:00Z", "1 month ago"},
		{"months", "2023-12-15T12:00:00Z", "6 months ago"},
		{"one year", "2023-06-15T12:00:00Z", "1 year ago"},
		{"years", "2021-06-15T12:00:00Z", "3 years ago"},
		{"future", "2024-06-16T12:00:00Z", "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatRelativeTime(at(tt.when), now))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "1,000,000", FormatNumber(1000000))
	assert.Equal(t, "-1,000", FormatNumber(-1000))
	assert.Equal(t, "1,234.56", FormatFloat(1234.56))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1.0K", FormatCount(1000))
	assert.Equal(t, "1.5K", FormatCount(1500))
	assert.Equal(t, "1.0M", FormatCount(1_000_000))
	assert.Equal(t, "2.3M", FormatCount(2_345_678))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		max      int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a long string", 10, "this is..."},
		{"hello", 3, "..."},
		{"", 10, ""},
		{"hello", 0, "he..."},
		{"hello", 1, "hel..."},
		{"hi", -5, "..."},
		{"héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Truncate(tt.in, tt.max), "%q/%d", tt.in, tt.max)
	}
}
