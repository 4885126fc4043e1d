package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"

	"icsevent/internal/codec"
	"icsevent/internal/event"
	appLog "icsevent/internal/log"
)

// ErrEmpty is returned for a payload with no content at all.
var ErrEmpty = errors.New("ics: empty payload")

// EventError reports a VEVENT that could not be turned into an event.
type EventError struct {
	// Index is the position of the VEVENT among the calendar's events.
	Index int
	UID   string
	Err   error
}

func (e *EventError) Error() string {
	if e.UID != "" {
		return fmt.Sprintf("ics: vevent %d (%s): %v", e.Index, e.UID, e.Err)
	}
	return fmt.Sprintf("ics: vevent %d: %v", e.Index, e.Err)
}

func (e *EventError) Unwrap() error { return e.Err }

// ParseICS parses a VCALENDAR payload into a Calendar.
//
//   - Property values are handed to the event codec as wire text, so
//     escaping is resolved there.
//   - TZID parameters are ignored and every time is read as UTC.
//   - A VEVENT that fails to decode is logged and skipped. Its error is
//     joined into the returned error, which accompanies a calendar holding
//     every event that did decode.
func ParseICS(src Source, body []byte, opts ...event.Option) (*Calendar, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmpty
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, fmt.Errorf("ics: %w", err)
	}

	out := &Calendar{}
	for _, p := range cal.CalendarProperties {
		switch strings.ToUpper(p.IANAToken) {
		case "PRODID":
			out.ProductID = p.Value
		case "VERSION":
			if p.Value != Version {
				appLog.Warn("ics unexpected calendar version", "id", src.ID, "version", p.Value)
			}
		}
	}

	var errs []error
	for i, ve := range cal.Events() {
		f := fieldsOf(src, ve)
		ev, perr := event.FromFields(f, opts...)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			uid, _ := f.Raw(codec.TagUID)
			appLog.Error("ics vevent parse failed", perr, "id", src.ID, "index", i, "uid", uid)
			errs = append(errs, &EventError{Index: i, UID: uid, Err: perr})
			continue
		}
		out.Events = append(out.Events, ev)
	}

	appLog.Info("ics parse completed", "id", src.ID, "url", redactURL(src.URL), "event_count", len(out.Events), "skipped", len(errs))
	return out, errors.Join(errs...)
}

// fieldsOf collects the content lines of a VEVENT. Tags are matched without
// regard to case and the first occurrence of a tag wins.
func fieldsOf(src Source, ve *ical.VEvent) codec.Fields {
	f := codec.Fields{}
	for _, p := range ve.Properties {
		tag := strings.ToUpper(p.IANAToken)
		if f.Has(tag) {
			appLog.Debug("ics duplicate property ignored", "id", src.ID, "tag", tag)
			continue
		}
		if tzs, ok := p.ICalParameters["TZID"]; ok && len(tzs) > 0 {
			appLog.Debug("ics TZID ignored, reading as UTC", "id", src.ID, "tag", tag, "tzid", tzs[0])
		}
		f.SetRaw(tag, p.Value)
	}
	return f
}
