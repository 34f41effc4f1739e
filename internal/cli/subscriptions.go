package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/pfrederiksen/wca-notifier/internal/filter"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/spf13/cobra"
)

func newSubscribeCmd(a *app) *cobra.Command {
	var (
		email, currencyCode      string
		events                   []string
		mode                     string
		continent, country       string
		feeRange                 string
		acceptFull, acceptClosed bool
	)

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Add a subscription",
		Example: `  wca-notifier subscribe --email me@example.com --currency EUR \
    --events 333,444 --mode any --continent _Europe --fee 0-30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var min, max *float64
			if feeRange != "" {
				var err error
				if min, max, err = filter.ParseFeeRange(feeRange); err != nil {
					return err
				}
			}

			f := filter.EventFilter{
				Continent:    strings.TrimSpace(continent),
				Country:      strings.TrimSpace(country),
				Events:       events,
				Mode:         filter.MatchMode(strings.ToLower(mode)),
				FeeMin:       min,
				FeeMax:       max,
				AcceptFull:   acceptFull,
				AcceptClosed: acceptClosed,
			}
			sub := subscription.New(email, currencyCode, f)
			if err := subscription.Validate(sub); err != nil {
				return err
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Add(cmd.Context(), sub); err != nil {
				return fmt.Errorf("adding subscription: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subscribed %s (%s)\n", sub.Email, sub.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", sub.Filter.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Subscriber email address (required)")
	cmd.Flags().StringVar(&currencyCode, "currency", "EUR", "Preferred currency code for fees")
	cmd.Flags().StringSliceVar(&events, "events", nil, "Event type codes, e.g. 333,444,sq1 (required)")
	cmd.Flags().StringVar(&mode, "mode", string(filter.ModeAll), "Match mode: all (every event) or any (at least one)")
	cmd.Flags().StringVar(&continent, "continent", "", "Continent, e.g. _Europe")
	cmd.Flags().StringVar(&country, "country", "", "Country, e.g. Poland")
	cmd.Flags().StringVar(&feeRange, "fee", "", "Converted fee range: MIN-MAX, MIN- or -MAX")
	cmd.Flags().BoolVar(&acceptFull, "accept-full", false, "Also notify about competitions that are full")
	cmd.Flags().BoolVar(&acceptClosed, "accept-closed", false, "Also notify about competitions with closed registration")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("events")
	return cmd
}

func newUnsubscribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe EMAIL...",
		Short: "Remove subscriptions and their notification history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.Remove(cmd.Context(), args...)
			if err != nil {
				return fmt.Errorf("removing subscriptions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d subscription(s)\n", n)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			subs, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing subscriptions: %w", err)
			}

			w := cmd.OutOrStdout()
			switch OutputFormat(strings.ToLower(format)) {
			case FormatJSON:
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if subs == nil {
					subs = []*subscription.Subscription{}
				}
				return enc.Encode(subs)
			case FormatText:
				if len(subs) == 0 {
					fmt.Fprintln(w, "No subscriptions.")
					return nil
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "EMAIL\tCURRENCY\tNOTIFIED\tFILTER")
				for _, sub := range subs {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", sub.Email, sub.PreferredCurrency, len(sub.Notified), sub.Filter.String())
				}
				return tw.Flush()
			default:
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")
	return cmd
}
