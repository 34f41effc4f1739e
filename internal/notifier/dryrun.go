package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
)

// DryRunNotifier writes the digest it would send instead of sending it.
type DryRunNotifier struct {
	mu       sync.Mutex
	w        io.Writer
	composer Composer
}

// NewDryRunNotifier creates a dry-run notifier writing to w.
func NewDryRunNotifier(w io.Writer, c Composer) *DryRunNotifier {
	return &DryRunNotifier{w: w, composer: c}
}

// Notify prints the message that would be sent.
func (n *DryRunNotifier) Notify(_ context.Context, sub *subscription.Subscription, events []*event.Event) error {
	msg, err := n.composer.Compose(sub, events)
	if err != nil {
		return err
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	_, err = fmt.Fprintf(n.w, "--- Email to %s ---\nSubject: %s\n\n%s\n", msg.To, msg.Subject, msg.Markdown)
	return err
}
