// Package discovery finds the new competitions that match one subscription.
//
// Discover is read-only: it never touches the notified set it is given.
// Recording what was sent is left to the caller once delivery succeeds.
package discovery

import (
	"context"
	"time"

	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/filter"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps the extractions running for one subscription.
const DefaultConcurrency = 8

// Collector returns candidate competition ids for a filter.
type Collector interface {
	Collect(ctx context.Context, f *filter.EventFilter) ([]string, error)
}

// Extractor enriches one competition id.
type Extractor interface {
	Extract(ctx context.Context, id, preferredCurrency string) (*event.Event, error)
}

// Observer is told about every extraction attempt.
type Observer interface {
	ObserveExtraction(err error)
}

// Failure is an id whose extraction failed.
type Failure struct {
	ID  string
	Err error
}

// Rejection is an extracted event the filter excluded.
type Rejection struct {
	ID     string
	Reason filter.Reason
}

// Result of one discovery.
type Result struct {
	// Events are new and match, in candidate order.
	Events     []*event.Event
	Candidates int
	Failures   []Failure
	Rejections []Rejection
}

// Options configure an Orchestrator.
type Options struct {
	Concurrency int
	Observer    Observer
	// Now defaults to time.Now.
	Now func() time.Time
}

// Orchestrator runs collection, extraction and filtering for a subscription.
type Orchestrator struct {
	collector   Collector
	extractor   Extractor
	concurrency int
	observer    Observer
	now         func() time.Time
}

func New(c Collector, x Extractor, opts Options) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Orchestrator{
		collector:   c,
		extractor:   x,
		concurrency: opts.Concurrency,
		observer:    opts.Observer,
		now:         opts.Now,
	}
}

// Discover returns the new matching events for sub.
//
// A failed collection fails the call. A failed extraction only drops that id,
// which is reported in Result.Failures.
func (o *Orchestrator) Discover(ctx context.Context, sub *subscription.Subscription) (*Result, error) {
	ids, err := o.collector.Collect(ctx, &sub.Filter)
	if err != nil {
		return nil, errors.Wrap(err, "collecting candidates")
	}

	extracted := make([]*event.Event, len(ids))
	failed := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(o.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			evt, err := o.extractor.Extract(ctx, id, sub.PreferredCurrency)
			if o.observer != nil {
				o.observer.ObserveExtraction(err)
			}
			if err != nil {
				failed[i] = err
				return nil
			}
			extracted[i] = evt
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Candidates: len(ids)}
	now := o.now()
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if failed[i] != nil {
			res.Failures = append(res.Failures, Failure{ID: id, Err: failed[i]})
			continue
		}
		evt := extracted[i]
		if seen[evt.ID] {
			continue
		}
		seen[evt.ID] = true

		if reason := sub.Filter.Check(evt, sub.Notified, now); reason != filter.Matched {
			res.Rejections = append(res.Rejections, Rejection{ID: id, Reason: reason})
			continue
		}
		res.Events = append(res.Events, evt)
	}
	return res, nil
}

// IDs returns the ids of the matched events.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Events))
	for i, evt := range r.Events {
		ids[i] = evt.ID
	}
	return ids
}
