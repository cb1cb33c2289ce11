// Package dateutil provides calendar-date helpers. All date math is done on
// local calendar fields; "YYYY-MM-DD" strings are the canonical key for every
// date-based set and map in the application.
package dateutil

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the canonical wire format for calendar dates.
const DateLayout = "2006-01-02"

// ErrInvalidRange is returned when a date range has check-in on or after
// check-out.
var ErrInvalidRange = errors.New("check-in date must be before check-out date")

// FormatDateString renders a time as a zero-padded "YYYY-MM-DD" string using
// its local calendar fields, not UTC.
func FormatDateString(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDateString parses a canonical "YYYY-MM-DD" string into a local
// midnight time.
func ParseDateString(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay truncates a time to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CalculateNights returns the number of nights between check-in and
// check-out, rounded up. Display-only: interval math iterates the half-open
// range directly instead of using this helper.
func CalculateNights(checkIn, checkOut time.Time) int {
	hours := checkOut.Sub(checkIn).Hours()
	return int(math.Ceil(math.Abs(hours) / 24))
}

// ExpandRange returns every calendar day from start inclusive to end
// exclusive as date strings. An empty slice is returned when start >= end;
// callers on the authoritative booking path should use ExpandRangeStrict.
func ExpandRange(start, end time.Time) []string {
	var dates []string
	day := StartOfDay(start)
	last := StartOfDay(end)
	for day.Before(last) {
		dates = append(dates, FormatDateString(day))
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

// ExpandRangeStrict is ExpandRange for booking creation: an inverted or
// empty range is an error rather than a silent no-op.
func ExpandRangeStrict(start, end time.Time) ([]string, error) {
	if !StartOfDay(start).Before(StartOfDay(end)) {
		return nil, ErrInvalidRange
	}
	return ExpandRange(start, end), nil
}

// ExpandRangeStrings is ExpandRange over canonical date strings.
func ExpandRangeStrings(checkIn, checkOut string) ([]string, error) {
	start, err := ParseDateString(checkIn)
	if err != nil {
		return nil, err
	}
	end, err := ParseDateString(checkOut)
	if err != nil {
		return nil, err
	}
	return ExpandRange(start, end), nil
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()
}

// FirstWeekday returns the weekday (0=Sunday) of the first day of the month.
func FirstWeekday(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.Local).Weekday())
}
