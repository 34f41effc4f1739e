package scraper

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/paulmach/orb"
	"github.com/pfrederiksen/wca-notifier/internal/calendar"
)

// PageKind names one of the pages that describe a competition.
type PageKind int

const (
	PageCalendar PageKind = iota
	PageInfo
	PageRegister
	PageRegistrations
)

var pageNames = [...]string{"calendar", "info", "register", "registrations"}

func (k PageKind) String() string {
	if int(k) < len(pageNames) {
		return pageNames[k]
	}
	return "unknown"
}

// Path returns the page location relative to the competition URL.
func (k PageKind) Path(id string) string {
	switch k {
	case PageCalendar:
		return id + ".ics"
	case PageRegister:
		return id + "/register"
	case PageRegistrations:
		return id + "/registrations"
	default:
		return id
	}
}

// RawEventPage is one fetched page.
type RawEventPage struct {
	Kind PageKind
	Body []byte
}

// PartialEvent holds whatever one page contributed. Nil pointers are unknown.
type PartialEvent struct {
	Start, End time.Time

	Name     string
	City     string
	Venue    string
	Location *orb.Point

	MaxCompetitors  *int
	RegistrationFee *float64
	// FeeCurrencyName is the display name next to the fee, e.g. "Euro".
	FeeCurrencyName string

	CurrentCompetitors *int
}

var (
	competitorLimitRe = regexp.MustCompile(`competitor limit of (\d+)`)
	feeRe             = regexp.MustCompile(`fee[^\n\d]+((\d+)([.,]\d+)?) \(([\p{L}\s]+)\)`)
	registeredRe      = regexp.MustCompile(`=\s+(\d+)`)
)

// ParsePage extracts the fields a page carries. Only the calendar dates are
// required; everything else is best effort and left unknown when absent.
func ParsePage(page RawEventPage) (PartialEvent, error) {
	if page.Kind == PageCalendar {
		start, end, err := calendar.ParseDates(page.Body)
		if err != nil {
			return PartialEvent{}, &ExtractionError{Page: PageCalendar, Field: "dates", Err: err}
		}
		return PartialEvent{Start: start, End: end}, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return PartialEvent{}, &ExtractionError{Page: page.Kind, Field: "html", Err: err}
	}

	switch page.Kind {
	case PageInfo:
		return parseInfo(doc), nil
	case PageRegister:
		return parseRegister(doc), nil
	case PageRegistrations:
		return parseRegistrations(doc), nil
	default:
		return PartialEvent{}, &ExtractionError{Page: page.Kind, Field: "kind"}
	}
}

func parseInfo(doc *goquery.Document) PartialEvent {
	p := PartialEvent{
		Name:  strings.TrimSpace(doc.Find("#competition-data > h3").First().Text()),
		City:  definition(doc, "City").Text(),
		Venue: definition(doc, "Venue").Text(),
	}
	p.City = strings.TrimSpace(p.City)
	p.Venue = strings.TrimSpace(p.Venue)

	if href, ok := definition(doc, "Address").Find("a").First().Attr("href"); ok {
		p.Location = parseLatLong(href)
	}
	return p
}

// definition returns the <dd> that follows the <dt> labelled label.
func definition(doc *goquery.Document, label string) *goquery.Selection {
	return doc.Find(`dt:contains("` + label + `")`).First().Next()
}

// parseLatLong reads "lat,long" from the last path segment of a map link.
func parseLatLong(href string) *orb.Point {
	segment := href[strings.LastIndex(href, "/")+1:]
	parts := strings.Split(segment, ",")
	if len(parts) != 2 {
		return nil
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil
	}
	return &orb.Point{lon, lat}
}

func parseRegister(doc *goquery.Document) PartialEvent {
	var p PartialEvent
	text := doc.Find("div#competition-data").Text()

	if m := competitorLimitRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.MaxCompetitors = &n
		}
	}

	if m := feeRe.FindStringSubmatch(text); m != nil {
		if fee, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64); err == nil {
			p.RegistrationFee = &fee
			p.FeeCurrencyName = strings.TrimSpace(m[4])
		}
	}
	return p
}

func parseRegistrations(doc *goquery.Document) PartialEvent {
	var p PartialEvent
	cell := doc.Find("tfoot > tr > td:nth-child(1)").First().Text()
	if m := registeredRe.FindStringSubmatch(cell); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.CurrentCompetitors = &n
		}
	}
	return p
}
