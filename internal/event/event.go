package event

import (
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Event is one enriched competition listing.
//
// Pointer fields are nil when the value could not be scraped. Location uses
// orb's [lon, lat] ordering.
type Event struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Start              time.Time  `json:"start"`
	End                time.Time  `json:"end"`
	City               string     `json:"city,omitempty"`
	Venue              string     `json:"venue,omitempty"`
	Location           *orb.Point `json:"location,omitempty"`
	MaxCompetitors     *int       `json:"max_competitors,omitempty"`
	RegistrationFee    *float64   `json:"registration_fee,omitempty"`
	FeeCurrency        string     `json:"fee_currency,omitempty"`
	ConvertedFee       *float64   `json:"converted_fee,omitempty"`
	CurrentCompetitors *int       `json:"current_competitors,omitempty"`
}

// URL returns the public info anchor for the event under baseURL.
func (e *Event) URL(baseURL string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + e.ID + "#general-info"
}

// IsFull reports whether registrations have reached capacity. Unknown
// counts report ok=false.
func (e *Event) IsFull() (full bool, ok bool) {
	if e.MaxCompetitors == nil || e.CurrentCompetitors == nil {
		return false, false
	}
	return *e.CurrentCompetitors >= *e.MaxCompetitors, true
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
