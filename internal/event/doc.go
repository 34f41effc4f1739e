// Package event defines the enriched competition record and the set of
// event ids a subscriber has already been notified about.
//
// Events are keyed by the site's competition id (for example
// "WC2025" or "GermanNationals2026"). The id is the join key for
// deduplication: a subscriber is never sent the same id twice.
package event
