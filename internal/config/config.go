package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Source site.
	IndexURL       string
	BaseURL        string
	UserAgent      string
	FetchRetries   int
	IndexTimeout   time.Duration
	DetailTimeout  time.Duration
	ProductTimeout time.Duration

	// Scrape scheduling.
	ScrapeConcurrency int
	ScrapeSchedule    string
	ScrapeOnStart     bool

	EventsFile         string
	CountryAliasesFile string

	// Ad-hoc product listing cache.
	ProductCacheSize int
	ProductCacheTTL  time.Duration

	// Optional Kafka sink for scraped events.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

const maxScrapeConcurrency = 32

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first when present; variables already
// set in the environment take precedence over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	indexTimeout, err := parsePositiveDuration("INDEX_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	detailTimeout, err := parsePositiveDuration("DETAIL_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	productTimeout, err := parsePositiveDuration("PRODUCT_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	productCacheTTL, err := parsePositiveDuration("PRODUCT_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	concurrency, err := parseInt("SCRAPE_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 || concurrency > maxScrapeConcurrency {
		return nil, fmt.Errorf("invalid SCRAPE_CONCURRENCY: must be between 1 and %d", maxScrapeConcurrency)
	}

	retries, err := parseInt("FETCH_RETRIES", 0)
	if err != nil {
		return nil, err
	}
	if retries < 0 {
		return nil, errors.New("invalid FETCH_RETRIES: must not be negative")
	}

	cacheSize, err := parseInt("PRODUCT_CACHE_SIZE", 100)
	if err != nil {
		return nil, err
	}
	if cacheSize < 1 {
		return nil, errors.New("invalid PRODUCT_CACHE_SIZE: must be positive")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8000"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		IndexURL:       sharedcfg.EnvOrDefault("SOURCE_INDEX_URL", "https://sentinel-asia.org/EO/EmergencyObservation.html"),
		BaseURL:        sharedcfg.EnvOrDefault("SOURCE_BASE_URL", "https://sentinel-asia.org/EO/"),
		UserAgent:      sharedcfg.EnvOrDefault("USER_AGENT", "sentinel-eor/1.0"),
		FetchRetries:   retries,
		IndexTimeout:   indexTimeout,
		DetailTimeout:  detailTimeout,
		ProductTimeout: productTimeout,

		ScrapeConcurrency: concurrency,
		ScrapeSchedule:    os.Getenv("SCRAPE_SCHEDULE"),
		ScrapeOnStart:     os.Getenv("SCRAPE_ON_START") == "true",

		EventsFile:         sharedcfg.EnvOrDefault("EVENTS_FILE", "events.json"),
		CountryAliasesFile: os.Getenv("COUNTRY_ALIASES_FILE"),

		ProductCacheSize: cacheSize,
		ProductCacheTTL:  productCacheTTL,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "sentinel-eor-events"),
	}

	if err := validateAbsoluteURL("SOURCE_INDEX_URL", cfg.IndexURL); err != nil {
		return nil, err
	}
	if err := validateAbsoluteURL("SOURCE_BASE_URL", cfg.BaseURL); err != nil {
		return nil, err
	}
	if cfg.EventsFile == "" {
		return nil, errors.New("EVENTS_FILE is required")
	}
	if cfg.ScrapeSchedule != "" {
		if _, err := cron.ParseStandard(cfg.ScrapeSchedule); err != nil {
			return nil, fmt.Errorf("invalid SCRAPE_SCHEDULE: %w", err)
		}
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func validateAbsoluteURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid %s: must be an absolute URL", key)
	}
	return nil
}
