package core

import (
	"errors"
	"fmt"
	"time"
)

// DateFormat is the ISO format used for the persisted Date column.
const DateFormat = "2006-01-02"

// Date is a calendar date with day granularity, normalized to midnight UTC.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	y, m, d := time.Now().UTC().Date()
	return NewDate(y, m, d)
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want %s): %w", s, DateFormat, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string { return d.Format(DateFormat) }

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(x Date) bool {
	return d.Year() == x.Year() && d.Month() == x.Month() && d.Day() == x.Day()
}

// Before reports whether d is an earlier day than x.
func (d Date) Before(x Date) bool { return d.Time.Before(x.Time) && !d.Equal(x) }
