package notifier

import (
	"context"

	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
)

// ResendNotifier sends digests through the Resend API.
type ResendNotifier struct {
	client   *resend.Client
	from     string
	composer Composer
}

// NewResendNotifier creates a notifier.
// PRE: apiKey is a valid Resend API key; from is a verified sender
// POST: Returns a ready-to-use notifier
func NewResendNotifier(apiKey, from string, c Composer) *ResendNotifier {
	return NewResendNotifierWithClient(resend.NewClient(apiKey), from, c)
}

// NewResendNotifierWithClient uses an existing client.
func NewResendNotifierWithClient(client *resend.Client, from string, c Composer) *ResendNotifier {
	return &ResendNotifier{client: client, from: from, composer: c}
}

// Notify composes and sends the digest.
// PRE: len(events) > 0
// POST: Message is queued with Resend, or an error is returned
func (n *ResendNotifier) Notify(ctx context.Context, sub *subscription.Subscription, events []*event.Event) error {
	msg, err := n.composer.Compose(sub, events)
	if err != nil {
		return err
	}

	_, err = n.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Markdown,
	})
	if err != nil {
		return errors.Wrapf(err, "sending digest to %s", msg.To)
	}
	return nil
}
