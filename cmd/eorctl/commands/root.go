package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/sentinel-eor/internal/adapter/sentinel"
	"github.com/couchcryptid/sentinel-eor/internal/config"
	"github.com/couchcryptid/sentinel-eor/internal/domain"
	"github.com/couchcryptid/sentinel-eor/internal/observability"
	"github.com/couchcryptid/sentinel-eor/internal/scraper"
	"github.com/couchcryptid/sentinel-eor/internal/store"
)

var (
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics

	eventsFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "eorctl",
	Short:         "eorctl scrapes Sentinel Asia emergency observation requests and inspects the results.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if eventsFile != "" {
			cfg.EventsFile = eventsFile
		}
		level := "warn"
		if verbose {
			level = cfg.LogLevel
		}
		logger = sharedobs.NewLogger(level, cfg.LogFormat)
		metrics = observability.NewMetrics()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&eventsFile, "events-file", "", "events document to read or write (overrides EVENTS_FILE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at LOG_LEVEL instead of warnings only")
}

// ExecuteContext runs the command tree and exits non-zero on error.
func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newFetcher() *sentinel.Client {
	return sentinel.NewClient(sentinel.Options{
		UserAgent: cfg.UserAgent,
		Retries:   cfg.FetchRetries,
	}, logger)
}

func newResolver() (*domain.CountryResolver, error) {
	aliases, err := config.LoadCountryAliases(cfg.CountryAliasesFile)
	if err != nil {
		return nil, err
	}
	return domain.NewCountryResolver(aliases), nil
}

func newScraper() (*scraper.Scraper, error) {
	resolver, err := newResolver()
	if err != nil {
		return nil, err
	}
	return scraper.New(newFetcher(), resolver, scraper.Options{
		IndexURL:      cfg.IndexURL,
		BaseURL:       cfg.BaseURL,
		Concurrency:   cfg.ScrapeConcurrency,
		IndexTimeout:  cfg.IndexTimeout,
		DetailTimeout: cfg.DetailTimeout,
	}, logger, metrics), nil
}

// loadEvents reads the stored collection. A missing document is reported as an error.
func loadEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := store.NewJSONStore(cfg.EventsFile).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w (run eorctl scrape first?)", err)
	}
	return events, nil
}
