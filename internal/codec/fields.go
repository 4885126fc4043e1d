package codec

import (
	"io"
	"sort"
	"strings"
	"time"
)

// Content line tags of a VEVENT block.
const (
	TagUID         = "UID"
	TagDTStamp     = "DTSTAMP"
	TagDTStart     = "DTSTART"
	TagDTEnd       = "DTEND"
	TagDuration    = "DURATION"
	TagSummary     = "SUMMARY"
	TagDescription = "DESCRIPTION"
	TagLocation    = "LOCATION"
	TagURL         = "URL"
)

const (
	blockBegin = "BEGIN:VEVENT"
	blockEnd   = "END:VEVENT"
	crlf       = "\r\n"
)

// order is the emission order of the known tags. Unknown tags follow in
// lexical order.
var order = []string{
	TagUID,
	TagDTStamp,
	TagDTStart,
	TagDTEnd,
	TagDuration,
	TagSummary,
	TagDescription,
	TagLocation,
	TagURL,
}

// Fields maps a content line tag to its value as it appears on the wire,
// i.e. already escaped. Tags are case-sensitive uppercase.
type Fields map[string]string

// Line is a single tag/value pair of a block.
type Line struct {
	Tag   string
	Value string
}

// Has reports whether tag is present.
func (f Fields) Has(tag string) bool {
	_, ok := f[tag]
	return ok
}

// Text returns the unescaped value of a TEXT tag.
func (f Fields) Text(tag string) (string, bool, error) {
	raw, ok := f[tag]
	if !ok {
		return "", false, nil
	}
	s, err := Unescape(raw)
	if err != nil {
		return "", true, withField(tag, err)
	}
	return s, true, nil
}

// Raw returns the value of tag verbatim.
func (f Fields) Raw(tag string) (string, bool) {
	v, ok := f[tag]
	return v, ok
}

// DateTime decodes a DATE or DATE-TIME tag.
func (f Fields) DateTime(tag string) (t time.Time, dateOnly, ok bool, err error) {
	raw, ok := f[tag]
	if !ok {
		return time.Time{}, false, false, nil
	}
	t, dateOnly, err = ParseDateTime(raw)
	if err != nil {
		return time.Time{}, false, true, withField(tag, err)
	}
	return t, dateOnly, true, nil
}

// Duration decodes a DURATION tag.
func (f Fields) Duration(tag string) (time.Duration, bool, error) {
	raw, ok := f[tag]
	if !ok {
		return 0, false, nil
	}
	d, err := ParseDuration(raw)
	if err != nil {
		return 0, true, withField(tag, err)
	}
	return d, true, nil
}

func (f Fields) SetText(tag, s string) {
	f[tag] = Escape(s)
}

// SetRaw stores v without escaping. URL values are stored this way.
func (f Fields) SetRaw(tag, v string) {
	f[tag] = v
}

func (f Fields) SetDateTime(tag string, t time.Time) {
	f[tag] = FormatDateTime(t)
}

func (f Fields) SetDate(tag string, t time.Time) {
	f[tag] = FormatDate(t)
}

func (f Fields) SetDuration(tag string, d time.Duration) {
	f[tag] = FormatDuration(d)
}

// Lines returns the fields in emission order.
func (f Fields) Lines() []Line {
	lines := make([]Line, 0, len(f))
	known := make(map[string]struct{}, len(order))
	for _, tag := range order {
		known[tag] = struct{}{}
		if v, ok := f[tag]; ok {
			lines = append(lines, Line{Tag: tag, Value: v})
		}
	}

	extra := make([]string, 0)
	for tag := range f {
		if _, ok := known[tag]; !ok {
			extra = append(extra, tag)
		}
	}
	sort.Strings(extra)
	for _, tag := range extra {
		lines = append(lines, Line{Tag: tag, Value: f[tag]})
	}
	return lines
}

// Block renders the fields as a VEVENT block. Every line, including the
// last, ends with CRLF.
func (f Fields) Block() string {
	var sb strings.Builder
	_ = f.WriteBlock(&sb)
	return sb.String()
}

// WriteBlock writes the VEVENT block to w. Lines are not folded.
func (f Fields) WriteBlock(w io.Writer) error {
	return f.EachLine(func(line string) error {
		_, err := io.WriteString(w, line+crlf)
		return err
	})
}

// EachLine passes every content line of the VEVENT block to emit, BEGIN and
// END markers included, without line terminators. It stops at the first
// error emit returns.
func (f Fields) EachLine(emit func(line string) error) error {
	if err := emit(blockBegin); err != nil {
		return err
	}
	for _, l := range f.Lines() {
		if err := emit(l.Tag + ":" + l.Value); err != nil {
			return err
		}
	}
	return emit(blockEnd)
}
