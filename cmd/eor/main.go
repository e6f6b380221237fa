package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/sentinel-eor/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/sentinel-eor/internal/adapter/kafka"
	"github.com/couchcryptid/sentinel-eor/internal/adapter/sentinel"
	"github.com/couchcryptid/sentinel-eor/internal/config"
	"github.com/couchcryptid/sentinel-eor/internal/domain"
	"github.com/couchcryptid/sentinel-eor/internal/observability"
	"github.com/couchcryptid/sentinel-eor/internal/pipeline"
	"github.com/couchcryptid/sentinel-eor/internal/scraper"
	"github.com/couchcryptid/sentinel-eor/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	aliases, err := config.LoadCountryAliases(cfg.CountryAliasesFile)
	if err != nil {
		logger.Error("failed to load country aliases", "error", err)
		os.Exit(1)
	}
	resolver := domain.NewCountryResolver(aliases)

	client := sentinel.NewClient(sentinel.Options{
		UserAgent: cfg.UserAgent,
		Retries:   cfg.FetchRetries,
	}, logger)
	sc := scraper.New(client, resolver, scraper.Options{
		IndexURL:      cfg.IndexURL,
		BaseURL:       cfg.BaseURL,
		Concurrency:   cfg.ScrapeConcurrency,
		IndexTimeout:  cfg.IndexTimeout,
		DetailTimeout: cfg.DetailTimeout,
	}, logger, metrics)
	products := sentinel.NewCachedProductLister(
		scraper.NewProductLister(client, cfg.ProductTimeout),
		cfg.ProductCacheSize, cfg.ProductCacheTTL, metrics,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.NewJSONStore(cfg.EventsFile)
	catalog := store.NewCatalog(st, logger, metrics)
	catalog.Load(ctx)

	// Publishing scraped events is feature-flagged via KAFKA_ENABLED.
	var publisher *kafkaadapter.Publisher
	var eventPublisher pipeline.EventPublisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		eventPublisher = publisher
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(sc, st, catalog, eventPublisher, logger, metrics)

	var scheduler *pipeline.Scheduler
	if cfg.ScrapeSchedule != "" {
		scheduler, err = pipeline.NewScheduler(ctx, cfg.ScrapeSchedule, p, logger)
		if err != nil {
			logger.Error("invalid scrape schedule", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, catalog, products, p, logger, metrics)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if cfg.ScrapeOnStart {
		go func() {
			if _, err := p.RunOnce(ctx); err != nil && !errors.Is(err, pipeline.ErrScrapeInProgress) {
				logger.Error("startup scrape failed", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
