// Package natural reads the loosely written dates and durations accepted on
// the command line.
package natural

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"icsevent/internal/codec"
	"icsevent/internal/event"
	appLog "icsevent/internal/log"
)

var ErrNoMatch = errors.New("natural: no date found")

// Parser resolves dates such as "2024-03-05 10:00", "tomorrow 5pm" or
// "in 2 hours".
type Parser struct {
	w   *when.Parser
	now func() time.Time
}

// New returns a Parser with the English and common rule sets. Relative
// expressions are anchored at now(), or time.Now when now is nil.
func New(now func() time.Time) *Parser {
	if now == nil {
		now = time.Now
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w, now: now}
}

// Instant returns s as an event begin or end. Exact forms understood by
// event.Text are passed through unchanged, so a bare date keeps its date
// granularity. Anything else goes through the natural language rules and
// becomes an absolute instant.
func (p *Parser) Instant(s string) (event.Instant, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrNoMatch
	}
	if _, _, err := event.Resolve(event.Text(s)); err == nil {
		return event.Text(s), nil
	}

	base := p.now().UTC()
	r, err := p.w.Parse(s, base)
	if err != nil {
		return nil, fmt.Errorf("natural: %q: %w", s, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w in %q", ErrNoMatch, s)
	}
	appLog.Debug("natural date resolved", "input", s, "matched", r.Text, "time", r.Time.UTC())
	return event.At(r.Time), nil
}

// Length parses a duration written either in Go form ("1h30m") or as an
// iCalendar DURATION value ("P1DT2H").
func Length(s string) (event.Length, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		return event.Span(d), nil
	}
	d, err := codec.ParseDuration(strings.ToUpper(s))
	if err != nil {
		return nil, fmt.Errorf("natural: duration %q: %w", s, err)
	}
	return event.Span(d), nil
}
