package ics

import (
	"slices"

	"icsevent/internal/event"
)

const (
	// Version is the only iCalendar version written and accepted.
	Version = "2.0"

	DefaultProductID = "-//icsevent//icsevent 1.0//EN"
)

// Source names where a calendar payload came from, for logging.
type Source struct {
	// ID is a short label such as a file path or config entry.
	ID string
	// URL is set for payloads fetched over HTTP.
	URL string
}

// Calendar is a VCALENDAR holding events in document order.
type Calendar struct {
	ProductID string
	Events    []*event.Event
}

// NewCalendar returns an empty calendar with the given product id, or
// DefaultProductID if prodID is empty.
func NewCalendar(prodID string) *Calendar {
	if prodID == "" {
		prodID = DefaultProductID
	}
	return &Calendar{ProductID: prodID}
}

// Add appends events to the calendar, skipping nil entries.
func (c *Calendar) Add(events ...*event.Event) {
	for _, e := range events {
		if e != nil {
			c.Events = append(c.Events, e)
		}
	}
}

// Sort orders the events by begin, end and name. Events that compare equal
// keep their document order.
func (c *Calendar) Sort() {
	slices.SortStableFunc(c.Events, event.Compare)
}
