package util

import (
	"fmt"
	"time"
)

// DateLayout is the observation date format used by FRED ("2006-01-02").
const DateLayout = "2006-01-02"

// ParseDate parses a FRED observation date. Returns (t, true) if it worked.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a date in the FRED observation format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// QuarterStart truncates a date to the first day of its quarter.
func QuarterStart(t time.Time) time.Time {
	month := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, time.UTC)
}

// NextQuarter returns the start of the quarter following t's quarter.
func NextQuarter(t time.Time) time.Time {
	return QuarterStart(t).AddDate(0, 3, 0)
}

// IsQuarterStart reports whether t is exactly the first day of a quarter.
func IsQuarterStart(t time.Time) bool {
	return t.Equal(QuarterStart(t))
}

// QuartersBetween counts quarter steps from a to b (negative if b before a).
func QuartersBetween(a, b time.Time) int {
	qa := QuarterStart(a)
	qb := QuarterStart(b)
	return (qb.Year()-qa.Year())*4 + (int(qb.Month())-int(qa.Month()))/3
}

// QuarterLabel renders a date as "1947Q1".
func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
}
