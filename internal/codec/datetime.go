package codec

import (
	"errors"
	"regexp"
	"time"
)

const (
	layoutUTC      = "20060102T150405Z"
	layoutFloating = "20060102T150405"
	layoutDate     = "20060102"
)

var (
	datePattern     = regexp.MustCompile(`^\d{8}$`)
	floatingPattern = regexp.MustCompile(`^\d{8}T\d{6}$`)
	utcPattern      = regexp.MustCompile(`^\d{8}T\d{6}Z$`)
)

// FormatDateTime renders an instant as YYYYMMDDTHHMMSSZ in UTC.
// Fractional seconds are dropped.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(layoutUTC)
}

// FormatDate renders the calendar date of t as YYYYMMDD.
func FormatDate(t time.Time) string {
	return t.Format(layoutDate)
}

// ParseDateTime decodes a DATE or DATE-TIME value. The result is always in
// UTC; floating date-times are read as UTC as well. dateOnly reports the
// DATE form.
func ParseDateTime(v string) (t time.Time, dateOnly bool, err error) {
	switch {
	case utcPattern.MatchString(v):
		t, err = time.Parse(layoutUTC, v)
	case floatingPattern.MatchString(v):
		t, err = time.ParseInLocation(layoutFloating, v, time.UTC)
	case datePattern.MatchString(v):
		t, err = time.ParseInLocation(layoutDate, v, time.UTC)
		dateOnly = true
	default:
		err = errors.New("invalid date-time format")
	}
	if err != nil {
		return time.Time{}, false, &ParseError{Value: v, Err: err}
	}
	return t, dateOnly, nil
}
