package event

import "strings"

const displayLayout = "2006-01-02 15:04:05"

// String returns a short diagnostic form:
//
//	<Event>
//	<Event 'name'>
//	<all-day Event 'name' 1999-10-10>
//	<Event 'name' begin:1999-10-10 00:00:00 end:1999-10-10 00:00:01>
func (e *Event) String() string {
	var sb strings.Builder
	begin, hasBegin := e.Begin()

	switch {
	case !hasBegin:
		sb.WriteString("<Event")
		if e.Name != "" {
			sb.WriteString(" '" + e.Name + "'")
		}
	case e.allDay:
		sb.WriteString("<all-day Event ")
		if e.Name != "" {
			sb.WriteString("'" + e.Name + "' ")
		}
		sb.WriteString(begin.Format("2006-01-02"))
	default:
		end, _ := e.End()
		sb.WriteString("<Event ")
		if e.Name != "" {
			sb.WriteString("'" + e.Name + "' ")
		}
		sb.WriteString("begin:" + begin.Format(displayLayout))
		sb.WriteString(" end:" + end.Format(displayLayout))
	}
	sb.WriteByte('>')
	return sb.String()
}
