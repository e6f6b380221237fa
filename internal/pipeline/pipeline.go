// Package pipeline runs scrape passes: scrape, persist, serve, and optionally publish.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
	"github.com/couchcryptid/sentinel-eor/internal/observability"
)

// ErrScrapeInProgress is returned when a scrape is requested while another is running.
var ErrScrapeInProgress = errors.New("scrape already in progress")

// EventSource produces the full event collection.
type EventSource interface {
	Scrape(ctx context.Context) ([]domain.Event, error)
}

// EventStore persists the collection.
type EventStore interface {
	Save(ctx context.Context, events []domain.Event) error
}

// Catalog serves the collection to readers.
type Catalog interface {
	Replace(events []domain.Event)
	LoadedAt() time.Time
}

// EventPublisher forwards scraped events downstream.
type EventPublisher interface {
	PublishBatch(ctx context.Context, events []domain.Event) error
}

// Result summarizes one completed scrape pass.
type Result struct {
	Events     int
	Duration   time.Duration
	FinishedAt time.Time
}

// Pipeline orchestrates scrape passes. At most one pass runs at a time.
type Pipeline struct {
	source    EventSource
	store     EventStore
	catalog   Catalog
	publisher EventPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	running   atomic.Bool
	last      atomic.Pointer[Result]
}

// New creates a Pipeline. catalog and publisher may be nil.
func New(source EventSource, store EventStore, catalog Catalog, publisher EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:    source,
		store:     store,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once the catalog holds a collection, loaded from the store
// or installed by a scrape.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.catalog != nil && !p.catalog.LoadedAt().IsZero() {
		return nil
	}
	if p.last.Load() != nil {
		return nil
	}
	return errors.New("events have not been loaded yet")
}

// LastResult returns the most recent successful pass, if any.
func (p *Pipeline) LastResult() (Result, bool) {
	r := p.last.Load()
	if r == nil {
		return Result{}, false
	}
	return *r, true
}

// RunOnce performs one scrape pass. When the index cannot be fetched or the collection
// cannot be saved, the previous collection stays in place and the error is returned.
// A publish failure is logged and counted but does not fail the pass.
func (p *Pipeline) RunOnce(ctx context.Context) (Result, error) {
	if !p.running.CompareAndSwap(false, true) {
		return Result{}, ErrScrapeInProgress
	}
	defer p.running.Store(false)

	p.metrics.ScrapeRunning.Set(1)
	defer p.metrics.ScrapeRunning.Set(0)

	start := time.Now()
	p.logger.Info("scrape started")

	events, err := p.source.Scrape(ctx)
	if err != nil {
		p.metrics.ScrapesTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("scrape: %w", err)
	}

	if err := p.store.Save(ctx, events); err != nil {
		p.metrics.ScrapesTotal.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("save events: %w", err)
	}
	if p.catalog != nil {
		p.catalog.Replace(events)
	}

	p.publish(ctx, events)

	result := Result{
		Events:     len(events),
		Duration:   time.Since(start),
		FinishedAt: domain.Now(),
	}
	p.last.Store(&result)

	p.metrics.ScrapesTotal.WithLabelValues("success").Inc()
	p.metrics.ScrapeDuration.Observe(result.Duration.Seconds())
	p.metrics.EventsScraped.Set(float64(result.Events))
	p.logger.Info("scrape finished", "events", result.Events, "duration", result.Duration)

	return result, nil
}

func (p *Pipeline) publish(ctx context.Context, events []domain.Event) {
	if p.publisher == nil || len(events) == 0 {
		return
	}
	if err := p.publisher.PublishBatch(ctx, events); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish events failed", "error", err, "events", len(events))
		return
	}
	p.metrics.EventsPublished.Add(float64(len(events)))
}
