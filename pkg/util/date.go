package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, date-only, and unix seconds.
// Returns (t, true) in UTC if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC(), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// HourBucket truncates a unix-seconds timestamp to its UTC hour boundary.
func HourBucket(unixSec int64) time.Time {
	return time.Unix(unixSec, 0).UTC().Truncate(time.Hour)
}

// AlignFromTo rounds the time range to hour boundaries.
func AlignFromTo(from, to time.Time) (time.Time, time.Time) {
	return from.UTC().Truncate(time.Hour), to.UTC().Truncate(time.Hour)
}
