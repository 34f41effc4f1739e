// Package notifier composes and delivers the competition digest sent to a
// subscriber.
//
// Compose renders the digest as Markdown and converts it to HTML with
// goldmark. ResendNotifier delivers through the Resend API; DryRunNotifier
// writes the message to a writer instead.
package notifier
