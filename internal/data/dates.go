// internal/data/dates.go
package data

import (
	"strings"
	"time"
)

const (
	// mediumDateLayout renders dates the way list and detail pages show them,
	// e.g. "Oct 14, 1983".
	mediumDateLayout = "Jan 2, 2006"

	// InputDateLayout is the format <input type="date"> submits and expects.
	InputDateLayout = "2006-01-02"
)

// formatMedium returns t in medium format, or "" when t is nil or zero.
func formatMedium(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(mediumDateLayout)
}

// formatInput returns t as YYYY-MM-DD, or "" when t is nil or zero.
// Month and day are both zero-padded so the value round-trips through a
// date input.
func formatInput(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(InputDateLayout)
}

// ParseDate parses an optional YYYY-MM-DD value. A blank string yields a nil
// time and no error.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(InputDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
