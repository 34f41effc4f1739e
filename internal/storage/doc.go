// Package storage persists subscriptions and their notified sets.
//
// Two backends implement subscription.Store:
//   - FileStore keeps everything in one JSON document under a data directory
//     (default ~/.local/share/wca-notifier/subscriptions.json), written
//     atomically and optionally sealed with a passphrase.
//   - SQLiteStore keeps subscriptions and notified ids in two tables, using
//     the pure-Go modernc.org/sqlite driver.
//
// Open picks the backend from configuration.
package storage
