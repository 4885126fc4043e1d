// Package event models a single iCalendar VEVENT.
//
// An event has at most one explicit extent: either an end or a duration.
// Setting one discards the other, but both stay readable through End and
// Duration, which derive the missing value from the begin. Events given a
// date-only begin, or collapsed with MakeAllDay, have date granularity and
// an implicit span of whole days.
//
//	e, err := event.New(event.Params{
//		Name:     "Standup",
//		Begin:    event.Epoch(0),
//		Duration: event.Units{"days": 1, "hours": 1},
//	})
//	if err != nil {
//		return err
//	}
//	fmt.Print(e.Serialize())
package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	day = 24 * time.Hour

	// DefaultNominalDuration is what Duration reports for a timed event that
	// has a begin but neither an end nor a duration.
	DefaultNominalDuration = time.Second
)

// Event is one calendar entry. The zero value is an empty event; use New to
// get the creation timestamp and injected dependencies set.
type Event struct {
	Name        string
	Description string
	Location    string
	URL         string
	Created     time.Time

	uid      string
	begin    time.Time
	hasBegin bool
	extent   extent
	allDay   bool

	now        func() time.Time
	newUID     func() string
	nominal    time.Duration
	hasNominal bool
}

// Params seeds New. Nil Begin, End and Duration leave the value unset; a
// zero Created defaults to the clock's current time.
type Params struct {
	Name        string
	Begin       Instant
	End         Instant
	Duration    Length
	UID         string
	Created     time.Time
	Description string
	Location    string
	URL         string
}

// Option configures the dependencies of an event.
type Option func(*Event)

// WithClock replaces the wall clock used for the Created default.
func WithClock(now func() time.Time) Option {
	return func(e *Event) {
		if now != nil {
			e.now = now
		}
	}
}

// WithUIDGenerator replaces the generator used when a UID is first needed.
func WithUIDGenerator(gen func() string) Option {
	return func(e *Event) {
		if gen != nil {
			e.newUID = gen
		}
	}
}

// WithNominalDuration sets the span reported for a timed event without an
// end or duration. Negative values are ignored.
func WithNominalDuration(d time.Duration) Option {
	return func(e *Event) {
		if d >= 0 {
			e.nominal = d
			e.hasNominal = true
		}
	}
}

// New builds an event from p. It fails without building anything if p
// carries both an end and a duration, or if any value breaks an invariant.
func New(p Params, opts ...Option) (*Event, error) {
	if p.End != nil && p.Duration != nil {
		return nil, &ValidationError{Field: "end/duration", Reason: "end and duration are mutually exclusive"}
	}

	e := &Event{
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
		URL:         p.URL,
		uid:         p.UID,
		now:         time.Now,
		newUID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.Created = p.Created.UTC()
	if p.Created.IsZero() {
		e.Created = e.now().UTC()
	}

	if p.Begin != nil {
		if err := e.SetBegin(p.Begin); err != nil {
			return nil, err
		}
	}
	if p.End != nil {
		if err := e.SetEnd(p.End); err != nil {
			return nil, err
		}
	}
	if p.Duration != nil {
		if err := e.SetDuration(p.Duration); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// UID returns the event identifier, generating and keeping one on first use.
func (e *Event) UID() string {
	if e.uid == "" {
		gen := e.newUID
		if gen == nil {
			gen = uuid.NewString
		}
		e.uid = gen()
	}
	return e.uid
}

// SetUID replaces the identifier. An empty uid means a new one is generated
// on the next read.
func (e *Event) SetUID(uid string) {
	e.uid = uid
}

func (e *Event) nominalSpan() time.Duration {
	if !e.hasNominal {
		return DefaultNominalDuration
	}
	return e.nominal
}

// Clone returns an independent copy of e.
func (e *Event) Clone() *Event {
	cp := *e
	return &cp
}
