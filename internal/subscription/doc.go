// Package subscription defines a subscriber's standing request and the store
// contract that persists it.
//
// A Subscription is keyed by email address. Its notified set only grows,
// through Store.AppendNotified after a successful delivery, and is dropped
// together with the subscription on removal.
//
// Vocabularies for currencies, continents, countries and event types are
// package-level, read-only, and back the custom validation tags used by
// Validate.
package subscription
