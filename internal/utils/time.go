package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/constants"
)

const secondsPerDay = 24 * 60 * 60

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// FormatDay returns the calendar day of t in t's own location.
func FormatDay(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ValidateDate checks that s is a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return nil
}

// DayNumber converts a YYYY-MM-DD date to a count of days since the Unix epoch.
// The date is interpreted as a civil date in UTC, so the result never drifts
// across daylight-saving transitions.
func DayNumber(date string) (int, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return 0, err
	}
	return int(t.Unix() / secondsPerDay), nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(date string, n int) (string, error) {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(constants.DateFormat), nil
}

// ValidateTimeFormat checks if the string matches the standard time format.
func ValidateTimeFormat(timeStr string) bool {
	_, err := time.Parse(constants.TimeFormat, timeStr)
	return err == nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
