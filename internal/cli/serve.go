package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pfrederiksen/wca-notifier/internal/api"
	"github.com/pfrederiksen/wca-notifier/internal/logger"
	"github.com/pfrederiksen/wca-notifier/internal/runner"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr     string
		runEvery time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin API and metrics",
		Long: `Serves the subscription admin API, /healthz and /metrics. With --run-every
the notification pass also runs on that interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.HTTP.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if runEvery > 0 {
				disc, err := a.discoverer()
				if err != nil {
					return err
				}
				r := runner.New(store, disc, a.notifier(cmd.OutOrStdout()), runner.Options{
					Workers:  a.cfg.Runner.Workers,
					Recorder: a.metrics,
					Logger:   a.log,
				})
				go schedule(ctx, runEvery, r, a.log)
			}

			return api.New(store, a.metrics, a.log).Serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config http.addr)")
	cmd.Flags().DurationVar(&runEvery, "run-every", 0, "Also run the notification pass on this interval")
	return cmd
}

// schedule runs r every interval until ctx is done.
func schedule(ctx context.Context, interval time.Duration, r *runner.Runner, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Run(ctx); err != nil {
				log.Error("Scheduled run failed", nil, err)
			}
		}
	}
}
