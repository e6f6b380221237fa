package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/sentinel-eor/internal/config"
	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

const (
	publishAttempts   = 3
	initialBackoff    = 200 * time.Millisecond
	maxPublishBackoff = 2 * time.Second
)

// messageWriter is the subset of kafka-go's Writer used by Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher produces scraped events to a Kafka topic.
// It implements pipeline.EventPublisher.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured events topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishBatch serializes and publishes all events in a single WriteMessages call,
// retrying the whole batch with backoff on failure.
func (p *Publisher) PublishBatch(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	scrapedAt := domain.Now()
	msgs := make([]kafkago.Message, len(events))
	for i := range events {
		msg, err := serializeToMessage(events[i], scrapedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}

	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= publishAttempts; attempt++ {
		if err = p.writer.WriteMessages(ctx, msgs...); err == nil {
			return nil
		}
		if attempt == publishAttempts {
			break
		}
		p.logger.Warn("publish failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		if !sharedretry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = sharedretry.NextBackoff(backoff, maxPublishBackoff)
	}
	return fmt.Errorf("publish %d events: %w", len(events), err)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// messageKey keeps updates to the same observation request on one partition.
func messageKey(event domain.Event) []byte {
	if event.URL != nil && *event.URL != "" {
		return []byte(*event.URL)
	}
	return []byte(event.OccurrenceDate + "|" + event.Name)
}

// serializeToMessage marshals an Event into a Kafka message.
func serializeToMessage(event domain.Event, scrapedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize event: %w", err)
	}
	return kafkago.Message{
		Key:   messageKey(event),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "disaster_type", Value: []byte(event.DisasterType)},
			{Key: "country_iso3", Value: []byte(domain.Deref(event.CountryISO3))},
			{Key: "occurrence_date", Value: []byte(event.OccurrenceDate)},
			{Key: "scraped_at", Value: []byte(scrapedAt.Format(time.RFC3339))},
		},
	}, nil
}
