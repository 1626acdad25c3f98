package booking

import (
	"fmt"
	"strings"
	"time"
)

// Date and time-of-day values are carried as normalized strings
// ("2006-01-02" and "15:04:05") matching the DATE/TIME column formats.
// Normalization makes lexicographic comparison equivalent to temporal
// comparison, so the overlap predicate and the SQL queries agree.

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Window is a validated half-open [Start, End) time window on one
// calendar day.
type Window struct {
	Date  string
	Start string
	End   string
}

// ParseWindow normalizes and validates a date plus start/end
// time-of-day. It returns ErrInvalidSlot (wrapped with detail) for
// malformed inputs and rejects empty or inverted windows.
func ParseWindow(date, start, end string) (Window, error) {
	d, err := NormalizeDate(date)
	if err != nil {
		return Window{}, err
	}
	s, err := NormalizeTime(start)
	if err != nil {
		return Window{}, err
	}
	e, err := NormalizeTime(end)
	if err != nil {
		return Window{}, err
	}
	if s >= e {
		return Window{}, fmt.Errorf("%w: start time %q must be before end time %q", ErrInvalidSlot, s, e)
	}
	return Window{Date: d, Start: s, End: e}, nil
}

// NormalizeDate parses a calendar day and returns it in the canonical
// "2006-01-02" form.
func NormalizeDate(s string) (string, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: invalid date %q", ErrInvalidSlot, s)
	}
	return t.Format(dateLayout), nil
}

// NormalizeTime parses a time-of-day and returns it in the canonical
// "15:04:05" form. Both "HH:MM" and "HH:MM:SS" inputs are accepted,
// matching what the browser client sends.
func NormalizeTime(s string) (string, error) {
	v := strings.TrimSpace(s)
	for _, layout := range []string{timeLayout, "15:04"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(timeLayout), nil
		}
	}
	return "", fmt.Errorf("%w: invalid time %q", ErrInvalidSlot, s)
}

// Overlaps reports whether the half-open intervals [s1,e1) and
// [s2,e2) share at least one instant: s1 < e2 && s2 < e1. Every
// overlap test in this codebase, Go or SQL, uses this one rule so the
// booking check and the free-room listing can never disagree. Inputs
// must be normalized "15:04:05" strings.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// OverlapsWindow reports whether w overlaps the [start, end) interval.
func (w Window) OverlapsWindow(start, end string) bool {
	return Overlaps(w.Start, w.End, start, end)
}
