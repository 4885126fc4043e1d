package event

import (
	"time"

	"icsevent/internal/codec"
)

// Fields maps the event onto VEVENT content lines. It generates the UID if
// none has been read yet. Only the active explicit extent is emitted: DTEND
// for a stored end, DURATION for a stored duration. All-day dates go out in
// DATE form with DTEND exclusive, one day after the last covered day.
func (e *Event) Fields() codec.Fields {
	f := codec.Fields{}
	f.SetText(codec.TagUID, e.UID())
	if !e.Created.IsZero() {
		f.SetDateTime(codec.TagDTStamp, e.Created)
	}

	if begin, ok := e.Begin(); ok {
		if e.allDay {
			f.SetDate(codec.TagDTStart, begin)
		} else {
			f.SetDateTime(codec.TagDTStart, begin)
		}
	}
	switch x := e.extent.(type) {
	case explicitEnd:
		if e.allDay {
			f.SetDate(codec.TagDTEnd, time.Time(x).Add(day))
		} else {
			f.SetDateTime(codec.TagDTEnd, time.Time(x))
		}
	case explicitDuration:
		f.SetDuration(codec.TagDuration, time.Duration(x))
	}

	if e.Name != "" {
		f.SetText(codec.TagSummary, e.Name)
	}
	if e.Description != "" {
		f.SetText(codec.TagDescription, e.Description)
	}
	if e.Location != "" {
		f.SetText(codec.TagLocation, e.Location)
	}
	if e.URL != "" {
		f.SetRaw(codec.TagURL, e.URL)
	}
	return f
}

// Serialize renders the event as a CRLF-terminated VEVENT block.
func (e *Event) Serialize() string {
	return e.Fields().Block()
}

// FromFields builds an event from decoded VEVENT content lines. Values are
// expected escaped, as on the wire. Tags it does not model are ignored.
func FromFields(f codec.Fields, opts ...Option) (*Event, error) {
	if f.Has(codec.TagDTEnd) && f.Has(codec.TagDuration) {
		return nil, &ValidationError{Field: "DTEND/DURATION", Reason: "end and duration are mutually exclusive"}
	}

	var p Params
	var err error
	texts := []struct {
		tag string
		dst *string
	}{
		{codec.TagUID, &p.UID},
		{codec.TagSummary, &p.Name},
		{codec.TagDescription, &p.Description},
		{codec.TagLocation, &p.Location},
	}
	for _, t := range texts {
		if *t.dst, _, err = f.Text(t.tag); err != nil {
			return nil, err
		}
	}
	p.URL, _ = f.Raw(codec.TagURL)

	stamp, _, ok, err := f.DateTime(codec.TagDTStamp)
	if err != nil {
		return nil, err
	}
	if ok {
		p.Created = stamp
	}

	begin, beginDate, hasBegin, err := f.DateTime(codec.TagDTStart)
	if err != nil {
		return nil, err
	}
	if hasBegin {
		p.Begin = At(begin)
		if beginDate {
			p.Begin = Day(begin)
		}
	}

	end, endDate, hasEnd, err := f.DateTime(codec.TagDTEnd)
	if err != nil {
		return nil, err
	}
	if hasEnd {
		p.End = At(end)
		if beginDate && endDate {
			// DTEND is exclusive on the wire; the model keeps the last day.
			last := end
			if end.After(begin) {
				last = end.Add(-day)
			}
			p.End = Day(last)
		}
	}

	d, hasDuration, err := f.Duration(codec.TagDuration)
	if err != nil {
		return nil, err
	}
	if hasDuration {
		p.Duration = Span(d)
	}

	return New(p, opts...)
}
