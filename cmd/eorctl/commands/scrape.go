package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	kafkaadapter "github.com/couchcryptid/sentinel-eor/internal/adapter/kafka"
	"github.com/couchcryptid/sentinel-eor/internal/pipeline"
	"github.com/couchcryptid/sentinel-eor/internal/store"
)

var scrapePublish bool

func init() {
	scrapeCmd.Flags().BoolVar(&scrapePublish, "publish", false, "also publish events to Kafka (uses KAFKA_BROKERS and KAFKA_TOPIC)")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--events-file <path>] [--publish]",
	Short: "Scrapes the EOR index and detail pages and writes the events document.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sc, err := newScraper()
		if err != nil {
			return err
		}

		var publisher pipeline.EventPublisher
		if scrapePublish {
			if len(cfg.KafkaBrokers) == 0 || cfg.KafkaTopic == "" {
				return errors.New("--publish needs KAFKA_BROKERS and KAFKA_TOPIC")
			}
			kp := kafkaadapter.NewPublisher(cfg, logger)
			defer kp.Close() //nolint:errcheck // best-effort close on exit
			publisher = kp
		}

		p := pipeline.New(sc, store.NewJSONStore(cfg.EventsFile), nil, publisher, logger, metrics)
		result, err := p.RunOnce(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "scraped %d events in %s, wrote %s\n",
			result.Events, result.Duration.Round(time.Millisecond), cfg.EventsFile)
		return nil
	},
}
