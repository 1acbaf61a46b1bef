package utils

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// FormatNumber renders n with thousands separators, e.g. 1234567 as "1,234,567".
func FormatNumber(n int64) string {
	return numberPrinter.Sprintf("%d", n)
}

// FormatFloat renders f with thousands separators and up to two decimals.
func FormatFloat(f float64) string {
	return numberPrinter.Sprintf("%.2f", f)
}

// FormatCount abbreviates large counts: 1500 is "1.5K", 2300000 is "2.3M".
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// FormatRelativeTime describes t relative to now. Months count as 30 days and
// years as 365 days.
func FormatRelativeTime(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	months := days / 30
	years := days / 365

	switch {
	case seconds < 60:
		return "just now"
	case minutes < 60:
		return plural(minutes, "minute")
	case hours < 24:
		return plural(hours, "hour")
	case days < 30:
		return plural(days, "day")
	case months < 12:
		return plural(months, "month")
	default:
		return plural(years, "year")
	}
}

// Truncate shortens s to max runes, ending in "...". A max below 3 cuts from
// the end instead, so Truncate("hello", 0) is "he...".
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	end := max - 3
	if end < 0 {
		end += len(runes)
	}
	if end < 0 {
		end = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	return string(runes[:end]) + "..."
}
