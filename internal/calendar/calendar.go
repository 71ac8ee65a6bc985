// Package calendar renders the "save the date" invite as an RFC 5545
// iCalendar document.
package calendar

import (
	"strings"
	"time"
	"unicode/utf8"
)

// ContentType is the media type of Invite output.
const ContentType = "text/calendar; charset=utf-8"

// eventLength is used for weddings that start at a set time of day.
const eventLength = 6 * time.Hour

// Wedding describes the event shown in the guest's calendar.
type Wedding struct {
	Couple string
	Date   time.Time
	URL    string // site address, optional
}

// Invite returns a single-event calendar for w. A date at midnight becomes
// an all-day event; any other time becomes a timed event. stamp is written
// as DTSTAMP.
func Invite(w Wedding, stamp time.Time) string {
	var b strings.Builder

	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//casamento//save-the-date//PT\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")
	b.WriteString("CALSCALE:GREGORIAN\r\n")

	b.WriteString("BEGIN:VEVENT\r\n")
	writeProp(&b, "UID", "casamento-"+w.Date.Format("20060102")+"@casamento")
	writeProp(&b, "DTSTAMP", formatDateTime(stamp))

	if allDay(w.Date) {
		writeProp(&b, "DTSTART;VALUE=DATE", formatDate(w.Date))
		writeProp(&b, "DTEND;VALUE=DATE", formatDate(w.Date.AddDate(0, 0, 1)))
	} else {
		writeProp(&b, "DTSTART", formatDateTime(w.Date))
		writeProp(&b, "DTEND", formatDateTime(w.Date.Add(eventLength)))
	}

	writeProp(&b, "SUMMARY", escapeText("Casamento "+w.Couple))
	writeProp(&b, "DESCRIPTION", escapeText("Confirme sua presença e veja a lista de presentes no site."))
	if w.URL != "" {
		writeProp(&b, "URL", w.URL)
	}
	writeProp(&b, "STATUS", "CONFIRMED")

	// Reminder the day before.
	b.WriteString("BEGIN:VALARM\r\n")
	writeProp(&b, "TRIGGER", "-P1D")
	writeProp(&b, "ACTION", "DISPLAY")
	writeProp(&b, "DESCRIPTION", escapeText("Amanhã é o casamento de "+w.Couple+"!"))
	b.WriteString("END:VALARM\r\n")

	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func allDay(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0
}

// writeProp writes one content line, folded at 75 octets without splitting
// a UTF-8 sequence.
func writeProp(b *strings.Builder, name, value string) {
	line := name + ":" + value
	limit := 75
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		limit = 74 // continuation lines start with a space
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

func formatDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeText escapes TEXT values per RFC 5545 section 3.3.11.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, ";", `\;`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
