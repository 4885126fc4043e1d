package codec

import (
	"errors"
	"strconv"
)

// ErrParse matches every *ParseError via errors.Is.
var ErrParse = errors.New("codec: parse error")

// ParseError reports a value that could not be decoded. Field is the
// content line tag when known (for example "DTSTART").
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	msg := "codec: cannot parse"
	if e.Field != "" {
		msg += " " + e.Field
	}
	msg += " value " + quote(e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// withField tags err with the content line it came from.
func withField(field string, err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		cp := *pe
		cp.Field = field
		return &cp
	}
	return &ParseError{Field: field, Err: err}
}

func quote(s string) string {
	const limit = 64
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return strconv.Quote(s)
}
