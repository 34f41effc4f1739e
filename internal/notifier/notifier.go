package notifier

import (
	"context"

	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
)

// Notifier delivers a digest of events to one subscriber.
type Notifier interface {
	// Notify returns nil only when the message was accepted for delivery.
	Notify(ctx context.Context, sub *subscription.Subscription, events []*event.Event) error
}
