package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
	"github.com/couchcryptid/sentinel-eor/internal/observability"
)

var tracer = otel.Tracer("sentinel-eor/scraper")

// Fetcher retrieves the raw body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// Options controls one scrape pass.
type Options struct {
	IndexURL      string
	BaseURL       string // detail links on the index are resolved against this
	Concurrency   int    // detail pages fetched at once; 1 is sequential
	IndexTimeout  time.Duration
	DetailTimeout time.Duration
}

// Scraper turns the index and detail pages into Events.
type Scraper struct {
	fetcher  Fetcher
	resolver *domain.CountryResolver
	opts     Options
	base     *url.URL
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Scraper. A non-positive concurrency is treated as 1.
func New(fetcher Fetcher, resolver *domain.CountryResolver, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Scraper {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Scraper{
		fetcher:  fetcher,
		resolver: resolver,
		opts:     opts,
		base:     parseBase(opts.BaseURL),
		logger:   logger,
		metrics:  metrics,
	}
}

// Scrape fetches the index and assembles one Event per matching entry. Only a failure to
// fetch the index is returned as an error; detail page failures degrade their entry.
func (s *Scraper) Scrape(ctx context.Context) ([]domain.Event, error) {
	ctx, span := tracer.Start(ctx, "scraper:Scrape", trace.WithAttributes(
		attribute.String("url", s.opts.IndexURL),
	))
	defer span.End()

	body, err := fetchWithTimeout(ctx, s.fetcher, s.opts.IndexURL, s.opts.IndexTimeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch index")
		return nil, fmt.Errorf("fetch index: %w", err)
	}

	entries, skipped := parseIndex(newDocument(body))
	s.metrics.IndexEntriesSkipped.Add(float64(skipped))
	s.logger.Info("index parsed", "entries", len(entries), "skipped", skipped)
	span.SetAttributes(attribute.Int("entries", len(entries)))

	return s.Assemble(ctx, entries), nil
}

// Assemble builds the Event for each entry, fetching detail pages on a bounded pool.
// The result has one Event per entry in entry order regardless of completion order.
func (s *Scraper) Assemble(ctx context.Context, entries []Entry) []domain.Event {
	events := make([]domain.Event, len(entries))
	sem := make(chan struct{}, s.opts.Concurrency)
	var wg sync.WaitGroup

	for i := range entries {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			events[i] = s.buildEvent(ctx, entries[i])
		}()
	}

	wg.Wait()
	return events
}

func (s *Scraper) buildEvent(ctx context.Context, entry Entry) domain.Event {
	var (
		detailURL *string
		detail    = Detail{Files: []domain.File{}}
	)
	if link, ok := resolveURL(s.base, entry.Href); ok {
		detailURL = &link
		detail = s.fetchDetail(ctx, link)
	}

	event := domain.Event{
		Name:                entry.Title,
		Description:         entry.Line,
		DisasterType:        DisasterType(entry.Title),
		Country:             detail.Country,
		OccurrenceDate:      entry.Date,
		ActivationDate:      domain.Ptr(entry.Date),
		Requester:           detail.Requester,
		EscalationToCharter: detail.Escalation,
		GlideNumber:         detail.GlideNumber,
		Files:               detail.Files,
		URL:                 detailURL,
	}

	if name := domain.Deref(event.Country); name != "" {
		if code, ok := s.resolver.Resolve(name); ok {
			event.CountryISO3 = &code
		} else {
			s.metrics.UnresolvedCountries.Inc()
			s.logger.Debug("country not in lookup table", "country", name, "event", event.Name)
		}
	}

	return event
}

// fetchDetail returns the parsed detail page, or an empty Detail when the page cannot be
// fetched. A failed detail page never aborts the scrape.
func (s *Scraper) fetchDetail(ctx context.Context, pageURL string) Detail {
	ctx, span := tracer.Start(ctx, "scraper:fetchDetail", trace.WithAttributes(
		attribute.String("url", pageURL),
	))
	defer span.End()

	start := time.Now()
	body, err := fetchWithTimeout(ctx, s.fetcher, pageURL, s.opts.DetailTimeout)
	s.metrics.DetailFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch detail page")
		s.metrics.DetailFetchErrors.Inc()
		s.logger.Warn("detail fetch failed, keeping index fields only", "url", pageURL, "error", err)
		return Detail{Files: []domain.File{}}
	}
	return ParseDetail(body, pageURL)
}

func fetchWithTimeout(ctx context.Context, f Fetcher, pageURL string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return f.Fetch(ctx, pageURL)
}

// ProductLister lists the product cards of arbitrary pages.
// It implements domain.ProductLister.
type ProductLister struct {
	fetcher Fetcher
	timeout time.Duration
}

// NewProductLister creates a ProductLister that bounds each page fetch by timeout.
func NewProductLister(fetcher Fetcher, timeout time.Duration) *ProductLister {
	return &ProductLister{fetcher: fetcher, timeout: timeout}
}

// ListProducts fetches pageURL and parses its product cards.
func (l *ProductLister) ListProducts(ctx context.Context, pageURL string) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "scraper:ListProducts", trace.WithAttributes(
		attribute.String("url", pageURL),
	))
	defer span.End()

	body, err := fetchWithTimeout(ctx, l.fetcher, pageURL, l.timeout)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch product page")
		return nil, fmt.Errorf("fetch product page: %w", err)
	}
	return ParseCards(body, pageURL), nil
}
