// Package codec holds the wire formats shapekit accepts for non-JSON-native
// kinds. Today that is the timestamp kind, carried as RFC3339 text.
package codec

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyTimestamp is returned for blank input.
var ErrEmptyTimestamp = errors.New("codec: empty timestamp")

// ParseRFC3339 accepts RFC3339Nano (trailing zeros optional) and plain RFC3339.
func ParseRFC3339(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, ErrEmptyTimestamp
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

// IsRFC3339 reports whether s parses with ParseRFC3339.
func IsRFC3339(s string) bool {
	_, err := ParseRFC3339(s)
	return err == nil
}

// FormatRFC3339 normalizes to UTC and formats using RFC3339Nano (Go trims
// trailing zeros), so equal instants always render the same text.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
