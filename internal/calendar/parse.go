// Package calendar reads and writes the iCalendar documents the site
// publishes for each competition.
package calendar

import (
	"regexp"
	"time"

	"github.com/pkg/errors"
)

var (
	dtStartPattern = regexp.MustCompile(`DTSTART;VALUE=DATE:(\d{8})`)
	dtEndPattern   = regexp.MustCompile(`DTEND;VALUE=DATE:(\d{8})`)
)

// ErrNoDate is returned when a calendar lacks an all-day DTSTART or DTEND.
var ErrNoDate = errors.New("calendar date not found")

// ParseDates pulls the all-day start and end dates out of an .ics body.
// Dates are returned at midnight UTC.
func ParseDates(ics []byte) (start, end time.Time, err error) {
	start, err = matchDate(dtStartPattern, ics)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(err, "DTSTART")
	}
	end, err = matchDate(dtEndPattern, ics)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrap(err, "DTEND")
	}
	return start, end, nil
}

func matchDate(re *regexp.Regexp, ics []byte) (time.Time, error) {
	m := re.FindSubmatch(ics)
	if m == nil {
		return time.Time{}, ErrNoDate
	}
	raw := string(m[1])
	// YYYYMMDD -> YYYY-MM-DD
	iso := raw[:4] + "-" + raw[4:6] + "-" + raw[6:]
	t, err := time.Parse(time.DateOnly, iso)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse %q", raw)
	}
	return t, nil
}
