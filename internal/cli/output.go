package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/wca-notifier/internal/calendar"
	"github.com/pfrederiksen/wca-notifier/internal/discovery"
	"github.com/pfrederiksen/wca-notifier/internal/event"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time      `json:"checked_at"`
	Email      string         `json:"email"`
	Filter     string         `json:"filter"`
	Candidates int            `json:"candidates"`
	NewEvents  []*event.Event `json:"new_events"`
	EventCount int            `json:"event_count"`
	Skipped    []SkippedEvent `json:"skipped,omitempty"`
	Failed     []FailedEvent  `json:"failed,omitempty"`

	baseURL string
}

// SkippedEvent is a competition the filter excluded.
type SkippedEvent struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// FailedEvent is a competition that could not be extracted.
type FailedEvent struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// NewOutputResult converts a discovery result for output.
func NewOutputResult(sub *subscription.Subscription, res *discovery.Result, baseURL string, now time.Time) *OutputResult {
	out := &OutputResult{
		CheckedAt:  now,
		Email:      sub.Email,
		Filter:     sub.Filter.String(),
		Candidates: res.Candidates,
		NewEvents:  res.Events,
		EventCount: len(res.Events),
		baseURL:    baseURL,
	}
	if out.NewEvents == nil {
		out.NewEvents = []*event.Event{}
	}
	for _, r := range res.Rejections {
		out.Skipped = append(out.Skipped, SkippedEvent{ID: r.ID, Reason: string(r.Reason)})
	}
	for _, f := range res.Failures {
		out.Failed = append(out.Failed, FailedEvent{ID: f.ID, Error: f.Err.Error()})
	}
	return out
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateICS(result.NewEvents, result.baseURL, result.CheckedAt))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No new events found.")
	}

	for _, evt := range result.NewEvents {
		fmt.Fprintf(w, "NEW: %s (%s)", evt.Name, evt.Start.Format("Mon, 2 Jan 2006"))
		if evt.City != "" {
			fmt.Fprintf(w, " - %s", evt.City)
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "     %s\n", evt.URL(result.baseURL))
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", evt.ID)
			if evt.Venue != "" {
				fmt.Fprintf(w, "     Venue: %s\n", evt.Venue)
			}
			if evt.RegistrationFee != nil {
				fmt.Fprintf(w, "     Fee: %.2f %s", *evt.RegistrationFee, evt.FeeCurrency)
				if evt.ConvertedFee != nil {
					fmt.Fprintf(w, " (%.2f converted)", *evt.ConvertedFee)
				}
				fmt.Fprintln(w)
			}
			if evt.CurrentCompetitors != nil && evt.MaxCompetitors != nil {
				fmt.Fprintf(w, "     Competitors: %d / %d\n", *evt.CurrentCompetitors, *evt.MaxCompetitors)
			}
		}
	}

	if verbose {
		for _, s := range result.Skipped {
			fmt.Fprintf(w, "SKIP: %s (%s)\n", s.ID, s.Reason)
		}
		for _, f := range result.Failed {
			fmt.Fprintf(w, "FAIL: %s: %s\n", f.ID, f.Error)
		}
	}

	if result.EventCount > 0 {
		fmt.Fprintf(w, "\nTotal: %d new of %d candidates\n", result.EventCount, result.Candidates)
	}
	return nil
}
