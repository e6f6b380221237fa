// Package sentinel fetches pages from the Sentinel Asia website.
package sentinel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("sentinel-eor/sentinel")

const (
	defaultRetryWait    = 500 * time.Millisecond
	defaultRetryMaxWait = 5 * time.Second
)

// Options configures the HTTP client.
type Options struct {
	UserAgent string
	Retries   int           // extra attempts on transport errors and 5xx responses
	RetryWait time.Duration // initial backoff; zero uses the default
	Timeout   time.Duration // per attempt; callers usually bound the whole fetch by context
}

// Client implements scraper.Fetcher over HTTP.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a page fetcher.
func NewClient(opts Options, logger *slog.Logger) *Client {
	wait := opts.RetryWait
	if wait <= 0 {
		wait = defaultRetryWait
	}

	client := resty.New()
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	client.SetRetryCount(opts.Retries)
	client.SetRetryWaitTime(wait)
	client.SetRetryMaxWaitTime(max(wait, defaultRetryMaxWait))
	client.AddRetryCondition(func(res *resty.Response, err error) bool {
		return err == nil && res != nil && res.StatusCode() >= http.StatusInternalServerError
	})

	return &Client{http: client, logger: logger}
}

// Fetch returns the body of pageURL. Any response outside 2xx is an error.
func (c *Client) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "sentinel:Fetch", trace.WithAttributes(
		attribute.String("url", pageURL),
	))
	defer span.End()

	res, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("get %s: %w", pageURL, err)
	}

	span.SetAttributes(attribute.Int("status", res.StatusCode()))
	if res.StatusCode() < http.StatusOK || res.StatusCode() >= http.StatusMultipleChoices {
		err := fmt.Errorf("get %s: unexpected status %d", pageURL, res.StatusCode())
		span.RecordError(err)
		span.SetStatus(codes.Error, "unexpected status")
		return nil, err
	}

	c.logger.Debug("page fetched", "url", pageURL, "bytes", len(res.Body()), "duration", res.Time())
	return res.Body(), nil
}
