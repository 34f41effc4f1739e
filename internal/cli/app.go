package cli

import (
	"io"

	"github.com/pfrederiksen/wca-notifier/internal/config"
	"github.com/pfrederiksen/wca-notifier/internal/currency"
	"github.com/pfrederiksen/wca-notifier/internal/discovery"
	"github.com/pfrederiksen/wca-notifier/internal/fetch"
	"github.com/pfrederiksen/wca-notifier/internal/logger"
	"github.com/pfrederiksen/wca-notifier/internal/metrics"
	"github.com/pfrederiksen/wca-notifier/internal/notifier"
	"github.com/pfrederiksen/wca-notifier/internal/scraper"
	"github.com/pfrederiksen/wca-notifier/internal/storage"
	"github.com/pfrederiksen/wca-notifier/internal/subscription"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// app carries what every command needs once the config is loaded.
type app struct {
	configPath string
	verbose    bool

	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return errors.Wrap(err, "loading config")
	}
	a.cfg = cfg

	level := logger.ParseLevel(cfg.Log.Level)
	if a.verbose {
		level = logger.LevelDebug
	}
	a.log = logger.New(level, cmd.ErrOrStderr())
	logger.SetDefault(a.log)
	a.metrics = metrics.New()
	return nil
}

func (a *app) openStore() (subscription.Store, error) {
	store, err := storage.Open(a.cfg.Storage)
	if err != nil {
		return nil, errors.Wrap(err, "initializing storage")
	}
	return store, nil
}

func (a *app) discoverer() (*discovery.Orchestrator, error) {
	client := fetch.New(fetch.Options{
		Timeout:       a.cfg.Fetch.Timeout,
		UserAgent:     a.cfg.Fetch.UserAgent,
		MaxConcurrent: a.cfg.Fetch.MaxConcurrent,
		Observer:      a.metrics,
	})

	table, err := currency.LoadTableFile(a.cfg.Currency.MapFile)
	if err != nil {
		return nil, errors.Wrap(err, "loading currency map")
	}
	a.log.Debug("Currency map loaded", logger.Fields{"names": table.Len(), "file": a.cfg.Currency.MapFile})

	converter := currency.NewConverter(client, a.cfg.Site.QuoteURL)
	extractor := scraper.NewExtractor(client, converter, table, a.cfg.Site.BaseURL)
	collector := scraper.NewCollector(client, a.cfg.Site.BaseURL)

	return discovery.New(collector, extractor, discovery.Options{
		Concurrency: a.cfg.Discovery.Concurrency,
		Observer:    a.metrics,
	}), nil
}

// notifier returns the configured delivery. Dry runs print to w.
func (a *app) notifier(w io.Writer) notifier.Notifier {
	composer := notifier.Composer{BaseURL: a.cfg.Site.BaseURL, SiteName: a.cfg.Email.SiteName}
	if a.cfg.Email.Provider == config.ProviderResend {
		return notifier.NewResendNotifier(a.cfg.Email.ResendAPIKey, a.cfg.Email.From, composer)
	}
	return notifier.NewDryRunNotifier(w, composer)
}
