package cli

import (
	"fmt"

	"github.com/pfrederiksen/wca-notifier/internal/runner"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var unsubscribe []string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one notification pass over every subscription",
		Long: `Applies pending unsubscribe requests, discovers new matching competitions
for every subscriber, sends each one a digest and records what was sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			disc, err := a.discoverer()
			if err != nil {
				return err
			}

			r := runner.New(store, disc, a.notifier(cmd.OutOrStdout()), runner.Options{
				Workers:  a.cfg.Runner.Workers,
				Inbox:    runner.StaticInbox(unsubscribe),
				Recorder: a.metrics,
				Logger:   a.log,
			})
			summary, err := r.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Processed %d subscriber(s): %d notified with %d event(s), %d failed, %d unsubscribed\n",
				summary.Subscribers, summary.Notified, summary.Events, summary.Failed, summary.Unsubscribed)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&unsubscribe, "unsubscribe", nil, "Email addresses to unsubscribe before the run")
	return cmd
}
