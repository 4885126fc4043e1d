package event

import "time"

// extent is the explicitly stored end of an event: nil, explicitEnd or
// explicitDuration. Holding it in one field keeps end and duration from
// ever being stored together.
type extent interface {
	isExtent()
}

type explicitEnd time.Time

type explicitDuration time.Duration

func (explicitEnd) isExtent()      {}
func (explicitDuration) isExtent() {}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Begin returns the start of the event. ok is false when it is unset.
func (e *Event) Begin() (t time.Time, ok bool) {
	return e.begin, e.hasBegin
}

// AllDay reports date granularity.
func (e *Event) AllDay() bool {
	return e.allDay
}

// SetBegin stores a new begin. A date-only value switches the event to date
// granularity. It fails if the begin would land after a stored end.
func (e *Event) SetBegin(in Instant) error {
	t, dateOnly, err := Resolve(in)
	if err != nil {
		return &ValidationError{Field: "begin", Value: in, Reason: err.Error()}
	}

	allDay := e.allDay || dateOnly
	if allDay {
		t = truncateDay(t)
	}

	end, hasEnd := e.extent.(explicitEnd)
	if hasEnd {
		limit := time.Time(end)
		if allDay {
			limit = truncateDay(limit)
		}
		if t.After(limit) {
			return &ValidationError{Field: "begin", Value: t, Reason: "begin is after end " + limit.Format(time.RFC3339)}
		}
	}

	e.begin, e.hasBegin = t, true
	if allDay && !e.allDay {
		e.allDay = true
		if hasEnd {
			e.extent = explicitEnd(truncateDay(time.Time(end)))
		}
	}
	return nil
}

// SetEnd stores an explicit end and discards any stored duration. On an
// all-day event the end is the last day the event covers. It fails if the
// end would land before the begin.
func (e *Event) SetEnd(in Instant) error {
	t, _, err := Resolve(in)
	if err != nil {
		return &ValidationError{Field: "end", Value: in, Reason: err.Error()}
	}
	if e.allDay {
		t = truncateDay(t)
	}
	if begin, ok := e.Begin(); ok && t.Before(begin) {
		return &ValidationError{Field: "end", Value: t, Reason: "end is before begin " + begin.Format(time.RFC3339)}
	}
	e.extent = explicitEnd(t)
	return nil
}

// SetDuration stores an explicit duration and discards any stored end.
func (e *Event) SetDuration(l Length) error {
	if l == nil {
		return &ValidationError{Field: "duration", Reason: "nil duration"}
	}
	d, err := l.span()
	if err != nil {
		return &ValidationError{Field: "duration", Value: l, Reason: err.Error()}
	}
	if d < 0 {
		return &ValidationError{Field: "duration", Value: d, Reason: "duration is negative"}
	}
	e.extent = explicitDuration(d)
	return nil
}

// HasEnd reports whether an end or a duration is explicitly stored.
// MakeAllDay clears both, so a collapsed event reports false: its end is
// implied by its date.
func (e *Event) HasEnd() bool {
	return e.extent != nil
}

// explicitSpan returns the stored duration and whether one is stored.
func (e *Event) explicitSpan() (time.Duration, bool) {
	d, ok := e.extent.(explicitDuration)
	return time.Duration(d), ok
}

// explicitEndTime returns the stored end and whether one is stored.
func (e *Event) explicitEndTime() (time.Time, bool) {
	t, ok := e.extent.(explicitEnd)
	return time.Time(t), ok
}

// Duration returns the effective span. In order of preference: the stored
// duration, the distance to the stored end, and a nominal default (one day
// for all-day events, the nominal duration otherwise). All-day spans are
// whole days, at least one, and count the end day.
func (e *Event) Duration() (time.Duration, bool) {
	d, hasSpan := e.explicitSpan()
	begin, hasBegin := e.Begin()
	if !hasBegin {
		return d, hasSpan
	}

	if e.allDay {
		switch {
		case hasSpan:
			days := (d + day - 1) / day
			if days < 1 {
				days = 1
			}
			return days * day, true
		default:
			if end, ok := e.explicitEndTime(); ok {
				return end.Sub(begin) + day, true
			}
			return day, true
		}
	}

	if hasSpan {
		return d, true
	}
	if end, ok := e.explicitEndTime(); ok {
		return end.Sub(begin), true
	}
	return e.nominalSpan(), true
}

// End returns the stored end, or begin plus Duration when no end is stored.
// For all-day events the result is the last covered day.
func (e *Event) End() (time.Time, bool) {
	if end, ok := e.explicitEndTime(); ok {
		return end, true
	}
	begin, ok := e.Begin()
	if !ok {
		return time.Time{}, false
	}
	d, _ := e.Duration()
	if e.allDay {
		return begin.Add(d - day), true
	}
	return begin.Add(d), true
}

// MakeAllDay collapses the event to the date of its begin. Any stored end or
// duration is discarded; the event then spans that single day. Calling it
// again has no further effect.
func (e *Event) MakeAllDay() {
	if begin, ok := e.Begin(); ok {
		e.begin = truncateDay(begin)
	}
	e.extent = nil
	e.allDay = true
}
