// Package cli implements the command-line interface for wca-notifier.
//
// The Cobra-based CLI runs the background pass, previews discovery for one
// subscriber (text, JSON or iCalendar output), manages subscriptions, and
// serves the admin API. It wires configuration, storage, scraping, discovery
// and delivery together.
package cli
