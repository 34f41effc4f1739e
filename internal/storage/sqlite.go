package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/filter"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS subscription (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	preferred_currency TEXT NOT NULL,
	filter TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS notified (
	email TEXT NOT NULL,
	event_id TEXT NOT NULL,
	notified_at TEXT NOT NULL,
	PRIMARY KEY (email, event_id)
);
`

// SQLiteStore implements subscription.Store on SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens dsn and creates the schema.
// PRE: dsn is a file path or ":memory:"
// POST: Both tables exist
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening sqlite")
	}
	// One connection: SQLite serializes writers anyway, and ":memory:"
	// databases are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enabling foreign keys")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return &SQLiteStore{db: db}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*subscription.Subscription, error) {
	var (
		sub                  subscription.Subscription
		id, rawFilter        string
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &sub.Email, &sub.PreferredCurrency, &rawFilter, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.Wrapf(err, "subscription id %q", id)
	}
	sub.ID = parsed

	var f filter.EventFilter
	if err := json.Unmarshal([]byte(rawFilter), &f); err != nil {
		return nil, errors.Wrapf(err, "filter of %s", sub.Email)
	}
	sub.Filter = f

	sub.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	sub.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	sub.Notified = event.NewIDSet()
	return &sub, nil
}

func (s *SQLiteStore) loadNotified(ctx context.Context, sub *subscription.Subscription) error {
	rows, err := s.db.QueryContext(ctx, "SELECT event_id FROM notified WHERE email = ?", sub.Email)
	if err != nil {
		return errors.Wrap(err, "querying notified")
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return errors.Wrap(err, "scanning notified")
		}
		sub.Notified.Add(id)
	}
	return rows.Err()
}

const selectSubscription = "SELECT id, email, preferred_currency, filter, created_at, updated_at FROM subscription"

// List returns every subscription ordered by email.
func (s *SQLiteStore) List(ctx context.Context) ([]*subscription.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, selectSubscription+" ORDER BY email")
	if err != nil {
		return nil, errors.Wrap(err, "querying subscriptions")
	}
	var subs []*subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scanning subscription")
		}
		subs = append(subs, sub)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// rows must be closed first: the pool holds a single connection
	for _, sub := range subs {
		if err := s.loadNotified(ctx, sub); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func (s *SQLiteStore) getOne(ctx context.Context, where string, arg any) (*subscription.Subscription, error) {
	sub, err := scanSubscription(s.db.QueryRowContext(ctx, selectSubscription+" WHERE "+where+" = ?", arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, subscription.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying subscription")
	}
	if err := s.loadNotified(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Get retrieves a subscription by email.
// PRE: email is non-empty
// POST: Returns the subscription or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, email string) (*subscription.Subscription, error) {
	return s.getOne(ctx, "email", subscription.NormalizeEmail(email))
}

// GetByID retrieves a subscription by id.
func (s *SQLiteStore) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	return s.getOne(ctx, "id", id.String())
}

// Add inserts a subscription. Leftover notified rows for the email are cleared.
// PRE: sub has been validated
// POST: Subscription is persisted with an empty notified set, or ErrExists
func (s *SQLiteStore) Add(ctx context.Context, sub *subscription.Subscription) error {
	rawFilter, err := json.Marshal(sub.Filter)
	if err != nil {
		return errors.Wrap(err, "encoding filter")
	}
	email := subscription.NormalizeEmail(sub.Email)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM subscription WHERE email = ?", email).Scan(&exists)
	if err != nil {
		return errors.Wrap(err, "checking subscription")
	}
	if exists > 0 {
		return subscription.ErrExists
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM notified WHERE email = ?", email); err != nil {
		return errors.Wrap(err, "clearing notified")
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO subscription (id, email, preferred_currency, filter, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		sub.ID.String(), email, sub.PreferredCurrency, string(rawFilter),
		sub.CreatedAt.UTC().Format(time.RFC3339Nano), sub.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return errors.Wrap(err, "inserting subscription")
	}
	return tx.Commit()
}

// Remove deletes subscriptions and their notified rows.
func (s *SQLiteStore) Remove(ctx context.Context, emails ...string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	removed := 0
	for _, e := range emails {
		e = subscription.NormalizeEmail(e)
		res, err := tx.ExecContext(ctx, "DELETE FROM subscription WHERE email = ?", e)
		if err != nil {
			return 0, errors.Wrap(err, "deleting subscription")
		}
		n, _ := res.RowsAffected()
		removed += int(n)
		if _, err := tx.ExecContext(ctx, "DELETE FROM notified WHERE email = ?", e); err != nil {
			return 0, errors.Wrap(err, "deleting notified")
		}
	}
	return removed, tx.Commit()
}

// AppendNotified records ids as sent. Existing rows are left alone.
// PRE: a subscription for email exists
// POST: Every id is present exactly once
func (s *SQLiteStore) AppendNotified(ctx context.Context, email string, ids []string) error {
	email = subscription.NormalizeEmail(email)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM subscription WHERE email = ?", email).Scan(&exists); err != nil {
		return errors.Wrap(err, "checking subscription")
	}
	if exists == 0 {
		return subscription.ErrNotFound
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	added := int64(0)
	for _, id := range ids {
		if id == "" {
			continue
		}
		res, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO notified (email, event_id, notified_at) VALUES (?, ?, ?)", email, id, now)
		if err != nil {
			return errors.Wrap(err, "inserting notified")
		}
		n, _ := res.RowsAffected()
		added += n
	}
	if added > 0 {
		if _, err := tx.ExecContext(ctx, "UPDATE subscription SET updated_at = ? WHERE email = ?", now, email); err != nil {
			return errors.Wrap(err, "touching subscription")
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
