package store

import (
	"fmt"

	"github.com/tartampluch/go-keepintouch/internal/config"
)

const (
	// DefaultColorHex is the color tag applied when none is supplied.
	DefaultColorHex = "#007AFF"

	// DefaultNoteTitleFormat titles untitled notes with their creation date.
	DefaultNoteTitleFormat = "Note %s"
)

// daysPerMonth holds the maximum day for each month in a leap year.
var daysPerMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear implements the Gregorian leap year rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// ValidateMonthDay checks that day is valid for month. When year is zero the
// birth year is unknown and Feb 29 is accepted; with a known non-leap year it
// is rejected.
func ValidateMonthDay(month, day, year int) error {
	if month < config.MinMonth || month > config.MaxMonth {
		return fmt.Errorf("%s: %d", config.ErrBadMonth, month)
	}
	max := daysPerMonth[month]
	if month == 2 && year != 0 && !IsLeapYear(year) {
		max = 28
	}
	if day < config.MinDay || day > max {
		return fmt.Errorf("%s: %d-%d", config.ErrBadDay, month, day)
	}
	return nil
}
