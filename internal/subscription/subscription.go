package subscription

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/filter"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when no subscription matches.
	ErrNotFound = errors.New("subscription not found")
	// ErrExists is returned when adding an email that is already subscribed.
	ErrExists = errors.New("subscription already exists")
)

// Subscription is one subscriber's standing request.
type Subscription struct {
	ID                uuid.UUID          `json:"id"`
	Email             string             `json:"emailAddress" validate:"required,email"`
	PreferredCurrency string             `json:"preferredCurrency" validate:"required,currency"`
	Filter            filter.EventFilter `json:"filter"`
	Notified          event.IDSet        `json:"notifiedEvents"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// New returns a subscription with a fresh id and an empty notified set.
func New(email, currency string, f filter.EventFilter) *Subscription {
	now := time.Now().UTC()
	return &Subscription{
		ID:                uuid.New(),
		Email:             NormalizeEmail(email),
		PreferredCurrency: strings.ToUpper(strings.TrimSpace(currency)),
		Filter:            f,
		Notified:          event.NewIDSet(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Matches applies the subscriber's filter and notified set to evt.
func (s *Subscription) Matches(evt *event.Event, now time.Time) bool {
	return s.Filter.Matches(evt, s.Notified, now)
}

// Clone returns a deep copy, so a run can hold a snapshot that later store
// writes do not touch.
func (s *Subscription) Clone() *Subscription {
	c := *s
	c.Filter = *s.Filter.Clone()
	c.Notified = s.Notified.Clone()
	return &c
}

// NormalizeEmail trims and lower-cases an address so it can serve as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Store persists subscriptions and their notified sets.
type Store interface {
	// List returns every subscription.
	List(ctx context.Context) ([]*Subscription, error)
	// Get returns the subscription for email or ErrNotFound.
	Get(ctx context.Context, email string) (*Subscription, error)
	// GetByID returns the subscription with id or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	// Add stores a new subscription with an empty notified set, or returns ErrExists.
	Add(ctx context.Context, sub *Subscription) error
	// Remove deletes the subscriptions and their notified sets. Unknown emails are ignored.
	Remove(ctx context.Context, emails ...string) (int, error)
	// AppendNotified adds ids to the notified set. Ids already present are no-ops.
	AppendNotified(ctx context.Context, email string, ids []string) error
	Close() error
}
