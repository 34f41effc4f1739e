package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/wca-notifier/internal/logger"
	"github.com/spf13/cobra"
)

func newDiscoverCmd(a *app) *cobra.Command {
	var (
		email  string
		format string
		order  string
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Show the new matching competitions for one subscriber",
		Long: `Runs discovery for one subscriber without sending anything or recording
the events as notified. Exits with status 2 when new events were found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat := OutputFormat(strings.ToLower(format))
			switch outFormat {
			case FormatText, FormatJSON, FormatICS:
			default:
				return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", format)
			}
			sortOrder := SortOrder(strings.ToLower(order))
			switch sortOrder {
			case SortByDate, SortByName, SortByFee, SortNone:
			default:
				return fmt.Errorf("invalid sort order: %s (must be 'date', 'name', 'fee' or 'none')", order)
			}

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sub, err := store.Get(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("loading subscription %s: %w", email, err)
			}

			disc, err := a.discoverer()
			if err != nil {
				return err
			}
			a.log.Debug("Discovering", logger.Fields{"email": sub.Email, "filter": sub.Filter.String()})

			res, err := disc.Discover(cmd.Context(), sub)
			if err != nil {
				return fmt.Errorf("discovering events: %w", err)
			}

			sortEvents(res.Events, sortOrder)
			result := NewOutputResult(sub, res, a.cfg.Site.BaseURL, time.Now().UTC())
			if err := WriteOutput(cmd.OutOrStdout(), result, outFormat, a.verbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if len(res.Events) > 0 {
				return exitCode(ExitNewEvents)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Subscriber email address (required)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&order, "sort", "none", "Sort order: date, name, fee or none (discovery order)")
	cmd.MarkFlagRequired("email")
	return cmd
}
