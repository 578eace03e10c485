package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the wire and storage format for timestamps (dd.MM.yyyy HH:mm:ss).
const DateTimeLayout = "02.01.2006 15:04:05"

// FormatTime renders t in DateTimeLayout, or "" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

// ParseTime parses a DateTimeLayout timestamp in the local zone.
// An empty string yields the zero time.
func ParseTime(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateTimeLayout, v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", value, err)
	}
	return t, nil
}

// ParseStart parses a start time given either in DateTimeLayout, as "now",
// or as an offset from now such as "+90m" or "+2h".
func ParseStart(value string, now time.Time) (time.Time, error) {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return time.Time{}, nil
	case v == "now":
		return now.Truncate(time.Second), nil
	case strings.HasPrefix(v, "+"):
		d, err := time.ParseDuration(v[1:])
		if err != nil {
			return time.Time{}, fmt.Errorf("parse start offset %q: %w", value, err)
		}
		return now.Add(d).Truncate(time.Second), nil
	default:
		return ParseTime(v)
	}
}

// Minutes returns d in whole minutes.
func Minutes(d time.Duration) int64 {
	return int64(d / time.Minute)
}

// ParseMinutes parses a whole number of minutes. An empty string yields 0.
func ParseMinutes(value string) (time.Duration, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse minutes %q: %w", value, err)
	}
	return FromMinutes(n)
}

// MaxDurationMinutes is the largest minute count a time.Duration can hold.
const MaxDurationMinutes = math.MaxInt64 / int64(time.Minute)

// FromMinutes converts a whole number of minutes to a duration.
func FromMinutes(n int64) (time.Duration, error) {
	if n < 0 {
		return 0, ErrNegativeDuration
	}
	if n > MaxDurationMinutes {
		return 0, fmt.Errorf("%w: %d minutes", ErrDurationTooLarge, n)
	}
	return time.Duration(n) * time.Minute, nil
}
