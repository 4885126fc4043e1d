package codec

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

const day = 24 * time.Hour

var errOutOfRange = errors.New("duration out of range")

// FormatDuration renders d as an RFC 5545 duration: P, the day count, then
// T and the hour/minute/second counts. Zero components are omitted; a zero
// span renders as PT0S. Sub-second precision is dropped.
//
//	FormatDuration(24*time.Hour + 23*time.Second) == "P1DT23S"
func FormatDuration(d time.Duration) string {
	var sb strings.Builder
	if d < 0 {
		sb.WriteByte('-')
		d = -d
	}
	sb.WriteByte('P')

	secs := int64(d / time.Second)
	days := secs / 86400
	secs %= 86400
	hours := secs / 3600
	secs %= 3600
	minutes := secs / 60
	secs %= 60

	if days > 0 {
		sb.WriteString(strconv.FormatInt(days, 10))
		sb.WriteByte('D')
	}
	if hours > 0 || minutes > 0 || secs > 0 {
		sb.WriteByte('T')
		if hours > 0 {
			sb.WriteString(strconv.FormatInt(hours, 10))
			sb.WriteByte('H')
		}
		if minutes > 0 {
			sb.WriteString(strconv.FormatInt(minutes, 10))
			sb.WriteByte('M')
		}
		if secs > 0 {
			sb.WriteString(strconv.FormatInt(secs, 10))
			sb.WriteByte('S')
		}
	} else if days == 0 {
		sb.WriteString("T0S")
	}
	return sb.String()
}

// ParseDuration decodes an RFC 5545 duration such as P1DT23S, PT15M, P2W
// or -PT10M.
func ParseDuration(v string) (time.Duration, error) {
	d, err := parseDuration(v)
	if err != nil {
		return 0, &ParseError{Value: v, Err: err}
	}
	return d, nil
}

func parseDuration(v string) (time.Duration, error) {
	s := v
	sign := time.Duration(1)
	switch {
	case strings.HasPrefix(s, "-"):
		sign = -1
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return 0, errors.New("duration must start with P")
	}
	s = s[1:]
	if s == "" {
		return 0, errors.New("duration has no components")
	}

	var (
		total     time.Duration
		inTime    bool
		seen      int
		seenTime  int
		lastUnit  = -1
		digits    string
		dateUnits = map[byte]struct {
			rank int
			unit time.Duration
		}{
			'W': {0, 7 * day},
			'D': {1, day},
		}
		timeUnits = map[byte]struct {
			rank int
			unit time.Duration
		}{
			'H': {2, time.Hour},
			'M': {3, time.Minute},
			'S': {4, time.Second},
		}
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits += string(c)
			continue
		case c == 'T':
			if inTime || digits != "" {
				return 0, errors.New("misplaced T designator")
			}
			inTime = true
			continue
		}

		units := dateUnits
		if inTime {
			units = timeUnits
		}
		u, ok := units[c]
		if !ok {
			return 0, errors.New("unexpected designator " + string(c))
		}
		if digits == "" {
			return 0, errors.New("designator " + string(c) + " without a count")
		}
		if u.rank <= lastUnit {
			return 0, errors.New("designator " + string(c) + " out of order")
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || n > int64(math.MaxInt64/u.unit) {
			return 0, errOutOfRange
		}
		step := time.Duration(n) * u.unit
		if total > math.MaxInt64-step {
			return 0, errOutOfRange
		}
		total += step
		lastUnit = u.rank
		digits = ""
		seen++
		if inTime {
			seenTime++
		}
	}

	if digits != "" {
		return 0, errors.New("trailing digits without a designator")
	}
	if seen == 0 {
		return 0, errors.New("duration has no components")
	}
	if inTime && seenTime == 0 {
		return 0, errors.New("T designator without time components")
	}
	return sign * total, nil
}
