package utils

import (
	"strings"
	"time"
)

// ParseScheduledTime parses the upstream scheduled-time formats.
// Feeds deliver either ISO 8601 timestamps, bare "15:04" clock times
// (interpreted as today, local) or the placeholder "N/A"/empty.
func ParseScheduledTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "N/A" || s == "None" {
		return time.Time{}, false
	}

	if strings.Contains(s, "T") {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
			return t, true
		}
	}

	if strings.Contains(s, "-") {
		if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, true
		}
	}

	if strings.Contains(s, ":") {
		if t, err := time.Parse("15:04", s); err == nil {
			now := time.Now()
			return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), true
		}
	}

	return time.Time{}, false
}

// SanitizeFileName makes a flight number safe to use as a file name
func SanitizeFileName(name string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_", " ", "")
	out := r.Replace(name)
	if out == "" {
		return "UNKNOWN"
	}
	return out
}
