package codec

import (
	"errors"
	"strings"

	ical "github.com/arran4/golang-ical"
)

// Escape encodes a TEXT value for a content line: backslash, semicolon,
// comma and newline are prefixed with a backslash (newline becomes `\n`).
func Escape(s string) string {
	return ical.ToText(s)
}

// Unescape is the inverse of Escape. Both `\n` and `\N` decode to a newline.
// Text without backslashes is returned unchanged.
func Unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 == len(s) {
			return "", &ParseError{Value: s, Err: errors.New("dangling backslash")}
		}
		i++
		switch s[i] {
		case '\\', ';', ',':
			sb.WriteByte(s[i])
		case 'n', 'N':
			sb.WriteByte('\n')
		default:
			return "", &ParseError{Value: s, Err: errors.New(`unknown escape sequence \` + string(s[i]))}
		}
	}
	return sb.String(), nil
}
