package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sentinel_eor"

// Metrics holds the Prometheus counters, histograms, and gauges for scraping and serving.
type Metrics struct {
	// Scrape pass metrics.
	ScrapesTotal   *prometheus.CounterVec // labels: outcome={success,error}
	ScrapeRunning  prometheus.Gauge
	ScrapeDuration prometheus.Histogram
	EventsScraped  prometheus.Gauge

	// Extraction metrics.
	IndexEntriesSkipped prometheus.Counter
	DetailFetchErrors   prometheus.Counter
	DetailFetchDuration prometheus.Histogram
	UnresolvedCountries prometheus.Counter

	// Sink and store metrics.
	EventsPublished prometheus.Counter
	PublishErrors   prometheus.Counter
	StoreLoadErrors prometheus.Counter

	// Ad-hoc product listing metrics.
	ProductRequests *prometheus.CounterVec // labels: outcome={success,error}
	ProductCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ScrapesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Scrape passes by outcome.",
		}, []string{"outcome"}),
		ScrapeRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scrape_running",
			Help:      "1 while a scrape pass is in progress, 0 otherwise.",
		}),
		ScrapeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Duration of a complete scrape pass including detail pages.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		EventsScraped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events",
			Help:      "Number of events in the current collection.",
		}),
		IndexEntriesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_entries_skipped_total",
			Help:      "Index entries whose link text did not fit the entry template.",
		}),
		DetailFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_fetch_errors_total",
			Help:      "Detail pages that could not be fetched.",
		}),
		DetailFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detail_fetch_duration_seconds",
			Help:      "Detail page fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		UnresolvedCountries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unresolved_countries_total",
			Help:      "Events whose country name had no code in the lookup table.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events written to the Kafka topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed Kafka publish batches.",
		}),
		StoreLoadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_load_errors_total",
			Help:      "Event store loads that fell back to an empty collection.",
		}),
		ProductRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_requests_total",
			Help:      "Ad-hoc product listing requests by outcome.",
		}, []string{"outcome"}),
		ProductCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_cache_total",
			Help:      "Product listing cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.ScrapesTotal,
		m.ScrapeRunning,
		m.ScrapeDuration,
		m.EventsScraped,
		m.IndexEntriesSkipped,
		m.DetailFetchErrors,
		m.DetailFetchDuration,
		m.UnresolvedCountries,
		m.EventsPublished,
		m.PublishErrors,
		m.StoreLoadErrors,
		m.ProductRequests,
		m.ProductCache,
	)

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ScrapesTotal:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "scrapes_total"}, []string{"outcome"}),
		ScrapeRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "scrape_running"}),
		ScrapeDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "scrape_duration_seconds"}),
		EventsScraped:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "events"}),
		IndexEntriesSkipped: prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "index_entries_skipped_total"}),
		DetailFetchErrors:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "detail_fetch_errors_total"}),
		DetailFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "detail_fetch_duration_seconds"}),
		UnresolvedCountries: prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "unresolved_countries_total"}),
		EventsPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "events_published_total"}),
		PublishErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "publish_errors_total"}),
		StoreLoadErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "store_load_errors_total"}),
		ProductRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "product_requests_total"}, []string{"outcome"}),
		ProductCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "product_cache_total"}, []string{"result"}),
	}
}
