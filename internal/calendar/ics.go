package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/wca-notifier/internal/event"
)

// GenerateICS renders events as one all-day VEVENT each. baseURL is the
// competitions root used for the URL property.
func GenerateICS(events []*event.Event, baseURL string, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//WCA Notifier//wca-notifier//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	for _, evt := range events {
		writeEvent(&ics, evt, baseURL, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *event.Event, baseURL string, now time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:%s@worldcubeassociation.org\r\n", evt.ID)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", now.UTC().Format("20060102T150405Z"))

	// DTEND is exclusive for all-day events.
	end := evt.End
	if end.Before(evt.Start) {
		end = evt.Start
	}
	fmt.Fprintf(ics, "DTSTART;VALUE=DATE:%s\r\n", evt.Start.Format("20060102"))
	fmt.Fprintf(ics, "DTEND;VALUE=DATE:%s\r\n", end.AddDate(0, 0, 1).Format("20060102"))

	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(evt.Name))

	location := evt.Venue
	if evt.City != "" {
		if location != "" {
			location += ", "
		}
		location += evt.City
	}
	if location != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(location))
	}
	if evt.Location != nil {
		fmt.Fprintf(ics, "GEO:%f;%f\r\n", evt.Location.Lat(), evt.Location.Lon())
	}

	fmt.Fprintf(ics, "URL:%s\r\n", evt.URL(baseURL))
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// escapeICS escapes text values per RFC 5545
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
