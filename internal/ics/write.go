package ics

import (
	"io"
	"strings"
	"unicode/utf8"
)

// foldLimit is the longest content line, in octets, before folding.
const foldLimit = 75

// fold75 turns a writer into one that takes unterminated content lines and
// writes them folded to 75 octets with CRLF endings. Continuation lines start
// with a single space. A multi-byte character is never split.
//
//	var sb strings.Builder
//	write := fold75(sb.WriteString)
//	write("SUMMARY:" + strings.Repeat("x", 100))
func fold75(writer func(string) (int, error)) func(string) (int, error) {
	return func(line string) (int, error) {
		total := 0
		prefix := ""
		limit := foldLimit
		for {
			chunk := line
			if len(line) > limit {
				cut := limit
				for cut > 0 && !utf8.RuneStart(line[cut]) {
					cut--
				}
				chunk = line[:cut]
			}
			n, err := writer(prefix + chunk + "\r\n")
			total += n
			if err != nil {
				return total, err
			}
			line = line[len(chunk):]
			if line == "" {
				return total, nil
			}
			prefix, limit = " ", foldLimit-1
		}
	}
}

// WriteTo writes the calendar as a VCALENDAR stream with VERSION and PRODID
// followed by every event.
func (c *Calendar) WriteTo(w io.Writer) (int64, error) {
	var total int64
	write := fold75(func(s string) (int, error) {
		return io.WriteString(w, s)
	})
	emit := func(line string) error {
		n, err := write(line)
		total += int64(n)
		return err
	}

	prodID := c.ProductID
	if prodID == "" {
		prodID = DefaultProductID
	}
	head := []string{"BEGIN:VCALENDAR", "VERSION:" + Version, "PRODID:" + prodID}
	for _, l := range head {
		if err := emit(l); err != nil {
			return total, err
		}
	}
	for _, e := range c.Events {
		if err := e.Fields().EachLine(emit); err != nil {
			return total, err
		}
	}
	return total, emit("END:VCALENDAR")
}

// Serialize renders the calendar as a string.
func (c *Calendar) Serialize() string {
	var sb strings.Builder
	_, _ = c.WriteTo(&sb)
	return sb.String()
}
