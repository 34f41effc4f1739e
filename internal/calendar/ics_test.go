package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/pfrederiksen/wca-notifier/internal/event"
)

func TestGenerateICS(t *testing.T) {
	evt := &event.Event{
		ID:       "SpringOpen2026",
		Name:     "Spring Open 2026",
		Start:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		City:     "Berlin",
		Venue:    "Stadthalle",
		Location: &orb.Point{13.4, 52.5},
	}

	ics := GenerateICS([]*event.Event{evt}, "https://www.worldcubeassociation.org/competitions", time.Now())

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//WCA Notifier//wca-notifier//EN",
		"BEGIN:VEVENT",
		"UID:SpringOpen2026@worldcubeassociation.org",
		"DTSTAMP:",
		"DTSTART;VALUE=DATE:20260314",
		"DTEND;VALUE=DATE:20260316",
		"SUMMARY:Spring Open 2026",
		"LOCATION:Stadthalle\\, Berlin",
		"GEO:52.500000;13.400000",
		"URL:https://www.worldcubeassociation.org/competitions/SpringOpen2026#general-info",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	if !strings.Contains(ics, "\r\n") {
		t.Error("ICS should use \\r\\n line endings")
	}
}

func TestGenerateICS_RoundTrip(t *testing.T) {
	evt := &event.Event{
		ID:    "X2026",
		Name:  "X",
		Start: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	start, end, err := ParseDates([]byte(GenerateICS([]*event.Event{evt}, "https://example.org", time.Now())))
	if err != nil {
		t.Fatalf("ParseDates() error = %v", err)
	}
	if !start.Equal(evt.Start) {
		t.Errorf("start = %v, want %v", start, evt.Start)
	}
	// exclusive end
	if want := evt.End.AddDate(0, 0, 1); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Simple text", "Simple text"},
		{"Text, with comma", "Text\\, with comma"},
		{"Text; with semicolon", "Text\\; with semicolon"},
		{"Text\\with backslash", "Text\\\\with backslash"},
		{"Text\nwith newline", "Text\\nwith newline"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeICS(tt.input); got != tt.expected {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
