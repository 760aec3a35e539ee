// Package datex provides a calendar-date value type for code that must
// compare and shift dates in calendar space rather than instant space.
// A Date has no time-of-day and no zone; two Dates are equal iff they
// name the same calendar day.
package datex

import (
	"fmt"
	"time"
)

// Layout is the wire and storage representation of a Date.
// It sorts correctly as text, which the catalog store relies on.
const Layout = "2006-01-02"

// Date is a calendar date. The zero value is not a valid date; use IsZero
// to detect it.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Parse converts a YYYY-MM-DD string into a Date. Out-of-range components
// (e.g. 2023-02-30) are rejected, not normalized.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustParse is Parse that panics on error. For tests and constants.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf returns the calendar date of t in t's location. This is how the
// "authorized current date" is derived from a clock reading: the user's
// local wall calendar decides which day it is, not UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// asTime pins the date to midnight UTC, purely as an arithmetic vehicle.
// The zone never leaks out of this package.
func (d Date) asTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays shifts the date by n calendar days (n may be negative). Month,
// year and leap-day carries are handled by the calendar, never by fixed
// 24h offsets.
func (d Date) AddDays(n int) Date {
	return DateOf(d.asTime().AddDate(0, 0, n))
}

// Compare returns -1 if d is before o, 0 if equal, +1 if after.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

// Before reports whether d is an earlier calendar day than o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is a later calendar day than o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
