// Package filter decides whether an enriched competition should be sent to a
// subscriber.
//
// A filter carries the region and event types used to build search queries,
// plus the predicates applied to each enriched event:
//   - the competition must start after the evaluation time
//   - it must not already have been sent
//   - its converted fee must sit inside the optional inclusive bounds
//   - unless full events are accepted, it must have a free spot
//
// Unknown values never pass a predicate that needs them. An event with an
// unknown converted fee is excluded when any fee bound is set, and an event
// with unknown capacity or registrations is excluded unless full events are
// accepted.
//
// Example usage:
//
//	f := &filter.EventFilter{
//		Events: []string{"333", "444"},
//		Mode:   filter.ModeAny,
//		FeeMax: event.Float(25),
//	}
//	if f.Matches(evt, sub.Notified, time.Now()) {
//		// send it
//	}
package filter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/wca-notifier/internal/event"
)

// AllRegions is the search token for an unscoped query.
const AllRegions = "all"

// MatchMode says how the requested event types combine in search.
type MatchMode string

const (
	// ModeAll requires a competition to hold every requested event type.
	ModeAll MatchMode = "all"
	// ModeAny requires at least one of the requested event types.
	ModeAny MatchMode = "any"
)

// UnmarshalJSON accepts "all"/"any" in any case, and the legacy numeric
// form where 0 means all and 1 means any.
func (m *MatchMode) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		switch n {
		case 0:
			*m = ModeAll
		case 1:
			*m = ModeAny
		default:
			return fmt.Errorf("invalid match mode: %d", n)
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid match mode: %s", data)
	}
	*m = MatchMode(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// EventFilter is a subscriber's match criteria.
type EventFilter struct {
	// Continent and Country scope the search. Continent wins when both are set.
	Continent string `json:"continent,omitempty" validate:"omitempty,continent"`
	Country   string `json:"country,omitempty" validate:"omitempty,country,excluded_with=Continent"`

	Events []string  `json:"events" validate:"required,min=1,dive,eventtype"`
	Mode   MatchMode `json:"eventFilterType" validate:"required,oneof=all any"`

	// Bounds on the converted fee, inclusive.
	FeeMin *float64 `json:"registrationFeeMin,omitempty" validate:"omitempty,gte=0"`
	FeeMax *float64 `json:"registrationFeeMax,omitempty" validate:"omitempty,gte=0"`

	AcceptFull bool `json:"acceptFull"`
	// AcceptClosed is stored and echoed but not evaluated: the scraped pages
	// do not expose a registration close date.
	AcceptClosed bool `json:"acceptClosed"`
}

// Reason explains why Check excluded an event. Matched means it passed.
type Reason string

const (
	Matched               Reason = ""
	ReasonNoStart         Reason = "start date unknown"
	ReasonStarted         Reason = "already started"
	ReasonNotified        Reason = "already notified"
	ReasonFeeUnknown      Reason = "converted fee unknown"
	ReasonBelowMin        Reason = "fee below minimum"
	ReasonAboveMax        Reason = "fee above maximum"
	ReasonCapacityUnknown Reason = "capacity unknown"
	ReasonFull            Reason = "full"
)

// Region returns the search scope: continent, else country, else AllRegions.
func (f *EventFilter) Region() string {
	if f.Continent != "" {
		return f.Continent
	}
	if f.Country != "" {
		return f.Country
	}
	return AllRegions
}

// Check evaluates the predicates in order and returns the first that fails.
// It does no I/O.
func (f *EventFilter) Check(evt *event.Event, notified event.IDSet, now time.Time) Reason {
	if evt.Start.IsZero() {
		return ReasonNoStart
	}
	if !evt.Start.After(now) {
		return ReasonStarted
	}

	if notified.Has(evt.ID) {
		return ReasonNotified
	}

	if f.FeeMin != nil || f.FeeMax != nil {
		if evt.ConvertedFee == nil {
			return ReasonFeeUnknown
		}
		fee := *evt.ConvertedFee
		if f.FeeMin != nil && fee < *f.FeeMin {
			return ReasonBelowMin
		}
		if f.FeeMax != nil && fee > *f.FeeMax {
			return ReasonAboveMax
		}
	}

	if !f.AcceptFull {
		full, known := evt.IsFull()
		if !known {
			return ReasonCapacityUnknown
		}
		if full {
			return ReasonFull
		}
	}

	return Matched
}

// Matches reports whether evt should be sent.
func (f *EventFilter) Matches(evt *event.Event, notified event.IDSet, now time.Time) bool {
	return f.Check(evt, notified, now) == Matched
}

// Apply returns the events that match, in their original order. Events
// sharing an id are only considered once.
func (f *EventFilter) Apply(events []*event.Event, notified event.IDSet, now time.Time) []*event.Event {
	seen := make(map[string]bool, len(events))
	var filtered []*event.Event
	for _, evt := range events {
		if seen[evt.ID] {
			continue
		}
		seen[evt.ID] = true
		if f.Matches(evt, notified, now) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// String returns a human-readable description of the filter.
// Format: "Events: 333, 444 (any) | Region: _Europe | Fee: 10.00-25.00 | Accept full"
func (f *EventFilter) String() string {
	parts := []string{fmt.Sprintf("Events: %s (%s)", strings.Join(f.Events, ", "), f.Mode)}

	parts = append(parts, fmt.Sprintf("Region: %s", f.Region()))

	if f.FeeMin != nil || f.FeeMax != nil {
		parts = append(parts, fmt.Sprintf("Fee: %s", FormatFeeRange(f.FeeMin, f.FeeMax)))
	}

	if f.AcceptFull {
		parts = append(parts, "Accept full")
	}
	if f.AcceptClosed {
		parts = append(parts, "Accept closed")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *EventFilter) Clone() *EventFilter {
	clone := *f

	clone.Events = make([]string, len(f.Events))
	copy(clone.Events, f.Events)

	if f.FeeMin != nil {
		v := *f.FeeMin
		clone.FeeMin = &v
	}
	if f.FeeMax != nil {
		v := *f.FeeMax
		clone.FeeMax = &v
	}

	return &clone
}
