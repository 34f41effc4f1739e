// Package scraper turns World Cube Association competition pages into events.
//
// Every selector and pattern that depends on upstream markup lives in page.go,
// behind ParsePage. The Extractor fetches the four pages that describe one
// competition (calendar, info, register, registrations) and merges them into an
// event.Event, converting the registration fee into the subscriber's currency.
// The Collector queries the competition search for a filter and returns the
// candidate ids.
package scraper
