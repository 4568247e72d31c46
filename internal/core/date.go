package core

import (
	"errors"
	"time"
)

// Date is a calendar date at day granularity. The embedded time.Time is always
// UTC midnight so that equality and ordering ignore time of day.
type Date struct {
	time.Time
}

var (
	ErrInvalidDay   = errors.New("invalid day")
	ErrInvalidMonth = errors.New("invalid month")
)

// NewDate creates a Date from year, month, day. Out-of-range days are
// normalized by time.Date (e.g. Feb 30 becomes Mar 1 or 2).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether d and other are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// Compare returns -1, 0 or +1 ordering d against other.
func (d Date) Compare(other Date) int {
	return d.Time.Compare(other.Time)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time.AddDate(0, 0, n))
}

// AddMonths advances d by n calendar months keeping the day of month,
// clamped to the last day when the target month is shorter.
func (d Date) AddMonths(n int) Date {
	y, m, day := d.Date()
	return clampedDate(y, int(m)+n, day)
}

// AddYears advances d by n whole years, clamping Feb 29 to Feb 28 in
// non-leap years.
func (d Date) AddYears(n int) Date {
	y, m, day := d.Date()
	return clampedDate(y+n, int(m), day)
}

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year, month int) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampedDate builds a date clamping day to the length of the target month.
// month may be outside [1,12]; time.Date normalizes the year for us first.
func clampedDate(year, month, day int) Date {
	norm := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := DaysInMonth(norm.Year(), int(norm.Month()))
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return NewDate(norm.Year(), int(norm.Month()), day)
}

// ClampToMonth returns the given day within year/month, reduced to the last
// day of the month when the month is shorter. Days below 1 become 1.
func ClampToMonth(year, month, day int) Date {
	return clampedDate(year, month, day)
}
