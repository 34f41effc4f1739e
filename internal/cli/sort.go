package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/wca-notifier/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone   SortOrder = "none"
	SortByDate SortOrder = "date"
	SortByName SortOrder = "name"
	SortByFee  SortOrder = "fee"
)

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByName:
		sort.SliceStable(events, func(i, j int) bool {
			ni, nj := strings.ToLower(events[i].Name), strings.ToLower(events[j].Name)
			if ni != nj {
				return ni < nj
			}
			return compareByDate(events[i], events[j])
		})
	case SortByFee:
		sort.SliceStable(events, func(i, j int) bool {
			fi, fj := events[i].ConvertedFee, events[j].ConvertedFee
			// unknown fees last
			switch {
			case fi == nil && fj == nil:
				return compareByDate(events[i], events[j])
			case fi == nil:
				return false
			case fj == nil:
				return true
			case *fi != *fj:
				return *fi < *fj
			}
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate reports whether i starts before j, breaking ties by id.
func compareByDate(i, j *event.Event) bool {
	if !i.Start.Equal(j.Start) {
		return i.Start.Before(j.Start)
	}
	return i.ID < j.ID
}
