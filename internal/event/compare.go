package event

import (
	"strings"
	"time"
)

// Compare orders events by begin, then end, then name. Unset times sort
// before set ones. It returns -1, 0 or +1 and is suitable for
// slices.SortFunc.
func Compare(a, b *Event) int {
	ab, aok := a.Begin()
	bb, bok := b.Begin()
	if c := compareTime(ab, aok, bb, bok); c != 0 {
		return c
	}
	ae, aok := a.End()
	be, bok := b.End()
	if c := compareTime(ae, aok, be, bok); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}

func compareTime(a time.Time, aok bool, b time.Time, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return -1
	case !bok:
		return 1
	}
	return a.Compare(b)
}

// compareTo checks that other is an event before comparing.
func (e *Event) compareTo(op string, other any) (int, error) {
	o, ok := other.(*Event)
	if !ok || o == nil {
		return 0, &UnsupportedOperationError{Op: op, Operand: other}
	}
	return Compare(e, o), nil
}

// Less reports e < other. other must be a non-nil *Event.
func (e *Event) Less(other any) (bool, error) {
	c, err := e.compareTo("<", other)
	return c < 0, err
}

func (e *Event) LessEqual(other any) (bool, error) {
	c, err := e.compareTo("<=", other)
	return err == nil && c <= 0, err
}

func (e *Event) Greater(other any) (bool, error) {
	c, err := e.compareTo(">", other)
	return c > 0, err
}

func (e *Event) GreaterEqual(other any) (bool, error) {
	c, err := e.compareTo(">=", other)
	return err == nil && c >= 0, err
}

// Equal reports that neither event orders before the other.
func (e *Event) Equal(other any) (bool, error) {
	c, err := e.compareTo("==", other)
	return err == nil && c == 0, err
}

// bounds returns the half-open interval the event covers. All-day events
// run until midnight after their last day.
func (e *Event) bounds() (begin, end time.Time, ok bool) {
	begin, ok = e.Begin()
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, _ = e.End()
	if e.allDay {
		end = end.Add(day)
	}
	return begin, end, true
}

// Overlap returns the span both events cover. ok is false when either event
// has no begin, or when the spans do not intersect or only touch.
func (e *Event) Overlap(other *Event) (begin, end time.Time, ok bool) {
	if other == nil {
		return time.Time{}, time.Time{}, false
	}
	ab, ae, aok := e.bounds()
	bb, be, bok := other.bounds()
	if !aok || !bok {
		return time.Time{}, time.Time{}, false
	}

	begin = ab
	if bb.After(begin) {
		begin = bb
	}
	end = ae
	if be.Before(end) {
		end = be
	}
	if !begin.Before(end) {
		return time.Time{}, time.Time{}, false
	}
	return begin, end, true
}
