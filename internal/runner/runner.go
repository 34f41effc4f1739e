// Package runner performs one background pass over every subscription:
// apply unsubscribe requests, discover new competitions for each subscriber,
// send the digest and record what was sent.
package runner

import (
	"context"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/pfrederiksen/wca-notifier/internal/discovery"
	"github.com/pfrederiksen/wca-notifier/internal/logger"
	"github.com/pfrederiksen/wca-notifier/internal/metrics"
	"github.com/pfrederiksen/wca-notifier/internal/notifier"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
)

// DefaultWorkers is the number of subscribers processed at once.
const DefaultWorkers = 4

// Discoverer finds new matching events for a subscription.
type Discoverer interface {
	Discover(ctx context.Context, sub *subscription.Subscription) (*discovery.Result, error)
}

// Recorder receives run metrics. *metrics.Metrics implements it.
type Recorder interface {
	ObserveSubscriber(outcome string, delivered int)
	MarkRun(at time.Time)
}

// Summary counts what a run did.
type Summary struct {
	Unsubscribed int
	Subscribers  int
	Notified     int
	Events       int
	Failed       int
}

// Options configure a Runner. Inbox, Recorder and Logger are optional.
type Options struct {
	Workers  int
	Inbox    Inbox
	Recorder Recorder
	Logger   *logger.Logger
}

// Runner ties the store, discovery and delivery together.
type Runner struct {
	store      subscription.Store
	discoverer Discoverer
	notifier   notifier.Notifier
	inbox      Inbox
	workers    int
	recorder   Recorder
	log        *logger.Logger
}

func New(store subscription.Store, d Discoverer, n notifier.Notifier, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Inbox == nil {
		opts.Inbox = StaticInbox(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	return &Runner{
		store:      store,
		discoverer: d,
		notifier:   n,
		inbox:      opts.Inbox,
		workers:    opts.Workers,
		recorder:   opts.Recorder,
		log:        opts.Logger,
	}
}

// Run performs one pass. Per-subscriber failures are logged and counted;
// only failing to read the inbox or the store fails the run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	r.log.Info("Starting run", logger.Fields{"workers": r.workers})

	unsubs, err := r.inbox.Unsubscribes(ctx)
	if err != nil {
		return summary, errors.Wrap(err, "reading unsubscribe requests")
	}
	if len(unsubs) > 0 {
		n, err := r.store.Remove(ctx, unsubs...)
		if err != nil {
			return summary, errors.Wrap(err, "removing unsubscribed")
		}
		summary.Unsubscribed = n
		for _, email := range unsubs {
			r.log.Info("Unsubscribed", logger.Fields{"email": email})
		}
	}

	subs, err := r.store.List(ctx)
	if err != nil {
		return summary, errors.Wrap(err, "listing subscriptions")
	}
	summary.Subscribers = len(subs)

	var mu sync.Mutex
	wp := workerpool.New(r.workers)
	for _, sub := range subs {
		snapshot := sub.Clone()
		wp.Submit(func() {
			outcome, delivered := r.process(ctx, snapshot)
			if r.recorder != nil {
				r.recorder.ObserveSubscriber(outcome, delivered)
			}

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case metrics.OutcomeNotified:
				summary.Notified++
				summary.Events += delivered
			case metrics.OutcomeNoEvents:
			default:
				summary.Failed++
			}
		})
	}
	wp.StopWait()

	if r.recorder != nil {
		r.recorder.MarkRun(time.Now())
	}
	r.log.Info("Finished run", logger.Fields{
		"subscribers":  summary.Subscribers,
		"notified":     summary.Notified,
		"events":       summary.Events,
		"failed":       summary.Failed,
		"unsubscribed": summary.Unsubscribed,
	})
	return summary, nil
}

// process handles one subscriber and returns the metrics outcome. Notified
// ids are recorded only after the digest was accepted.
func (r *Runner) process(ctx context.Context, sub *subscription.Subscription) (string, int) {
	fields := logger.Fields{"email": sub.Email}

	res, err := r.discoverer.Discover(ctx, sub)
	if err != nil {
		r.log.Error("Error fetching events for subscription", fields, err)
		return metrics.OutcomeDiscoveryFailed, 0
	}
	for _, f := range res.Failures {
		r.log.Warn("Skipping competition", logger.Fields{"email": sub.Email, "id": f.ID, "error": f.Err.Error()})
	}

	r.log.Info("Sending", logger.Fields{"email": sub.Email, "events": len(res.Events), "candidates": res.Candidates})
	if len(res.Events) == 0 {
		return metrics.OutcomeNoEvents, 0
	}

	if err := r.notifier.Notify(ctx, sub, res.Events); err != nil {
		r.log.Error("Error sending email", fields, err)
		return metrics.OutcomeNotifyFailed, 0
	}
	if err := r.store.AppendNotified(ctx, sub.Email, res.IDs()); err != nil {
		r.log.Error("Error recording notified events", fields, err)
		return metrics.OutcomeSaveFailed, len(res.Events)
	}
	return metrics.OutcomeNotified, len(res.Events)
}
