package calendar

import (
	"errors"
	"testing"
	"time"
)

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"DTSTART;VALUE=DATE:20260314\r\n" +
	"DTEND;VALUE=DATE:20260316\r\n" +
	"SUMMARY:Spring Open 2026\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParseDates(t *testing.T) {
	start, end, err := ParseDates([]byte(sampleICS))
	if err != nil {
		t.Fatalf("ParseDates() error = %v", err)
	}

	if want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
}

func TestParseDates_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantNo bool
	}{
		{"empty", "", true},
		{"timed start only", "DTSTART:20260314T090000Z\r\nDTEND;VALUE=DATE:20260316\r\n", true},
		{"missing end", "DTSTART;VALUE=DATE:20260314\r\n", true},
		{"impossible month", "DTSTART;VALUE=DATE:20261314\r\nDTEND;VALUE=DATE:20261315\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDates([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNoDate); got != tt.wantNo {
				t.Errorf("errors.Is(err, ErrNoDate) = %v, want %v", got, tt.wantNo)
			}
		})
	}
}
