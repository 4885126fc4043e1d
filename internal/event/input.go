package event

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Instant is an accepted form of a begin or end value: Epoch, Text, At or
// Day. Every form is normalized to UTC as soon as it is assigned.
type Instant interface {
	resolve() (t time.Time, dateOnly bool, err error)
}

// Epoch is a unix timestamp in seconds.
type Epoch int64

// Text is a date or date-time string such as "1999/10/10",
// "1999-10-10 09:30" or "19991010T093000Z". A date-only string gives the
// event date granularity.
type Text string

// At is an absolute instant in any zone.
type At time.Time

// Day is the calendar date of the wrapped time, without a time of day.
type Day time.Time

func (e Epoch) resolve() (time.Time, bool, error) {
	return time.Unix(int64(e), 0).UTC(), false, nil
}

func (a At) resolve() (time.Time, bool, error) {
	return time.Time(a).UTC(), false, nil
}

func (d Day) resolve() (time.Time, bool, error) {
	y, m, dd := time.Time(d).Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC), true, nil
}

var (
	dateLayouts = []string{
		"2006/01/02",
		"2006-01-02",
		"20060102",
	}
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006/01/02T15:04:05",
		"2006/01/02T15:04",
		"2006/01/02 15:04:05",
		"2006/01/02 15:04",
		"20060102T150405Z",
		"20060102T150405",
	}
)

func (s Text) resolve() (time.Time, bool, error) {
	v := strings.TrimSpace(string(s))
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, true, nil
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.UTC(), false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized date format %q", v)
}

// Resolve normalizes in to a UTC instant. dateOnly reports a value without
// a time of day.
func Resolve(in Instant) (t time.Time, dateOnly bool, err error) {
	if in == nil {
		return time.Time{}, false, fmt.Errorf("nil instant")
	}
	return in.resolve()
}

// Length is an accepted form of a duration value: Span or Units.
type Length interface {
	span() (time.Duration, error)
}

// Span is a plain duration.
type Span time.Duration

// Units maps calendar units to counts, e.g. Units{"days": 6, "hours": 2}.
// Accepted keys are weeks, days, hours, minutes and seconds.
type Units map[string]int

var unitSizes = map[string]time.Duration{
	"weeks":   7 * 24 * time.Hour,
	"days":    24 * time.Hour,
	"hours":   time.Hour,
	"minutes": time.Minute,
	"seconds": time.Second,
}

func (s Span) span() (time.Duration, error) {
	return time.Duration(s), nil
}

func (u Units) span() (time.Duration, error) {
	keys := make([]string, 0, len(u))
	for k := range u {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var total time.Duration
	for _, k := range keys {
		size, ok := unitSizes[k]
		if !ok {
			return 0, fmt.Errorf("unknown unit %q", k)
		}
		limit := int64(math.MaxInt64 / size)
		n := int64(u[k])
		if n > limit || n < -limit {
			return 0, fmt.Errorf("%d %s is out of range", u[k], k)
		}
		step := time.Duration(n) * size
		if (step > 0 && total > math.MaxInt64-step) || (step < 0 && total < math.MinInt64-step) {
			return 0, fmt.Errorf("%d %s is out of range", u[k], k)
		}
		total += step
	}
	return total, nil
}
