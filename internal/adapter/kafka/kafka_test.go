package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
)

// --- mocks ---

type mockWriter struct {
	failures int
	calls    int
	written  []kafkago.Message
}

func (m *mockWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	m.calls++
	if m.calls <= m.failures {
		return errors.New("leader not available")
	}
	m.written = append(m.written, msgs...)
	return nil
}

func (m *mockWriter) Close() error { return nil }

func testPublisher(w messageWriter) *Publisher {
	return &Publisher{writer: w, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func testEvent() domain.Event {
	return domain.Event{
		Name:           "Earthquake in Japan",
		Description:    "2024-01-01: Earthquake in Japan on 1 January 2024",
		DisasterType:   "Earthquake",
		Country:        domain.Ptr("Japan"),
		CountryISO3:    domain.Ptr("JPN"),
		OccurrenceDate: "2024-01-01",
		Files:          []domain.File{},
		URL:            domain.Ptr("https://sentinel-asia.org/EO/2024/article20240101JPN.html"),
	}
}

// --- tests ---

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	msg, err := serializeToMessage(testEvent(), now)
	require.NoError(t, err)

	assert.Equal(t, []byte("https://sentinel-asia.org/EO/2024/article20240101JPN.html"), msg.Key)
	assert.Contains(t, string(msg.Value), `"disaster_type":"Earthquake"`)
	assert.Contains(t, string(msg.Value), `"country_iso3":"JPN"`)
	require.Len(t, msg.Headers, 4)
	assert.Equal(t, "disaster_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("Earthquake"), msg.Headers[0].Value)
	assert.Equal(t, "country_iso3", msg.Headers[1].Key)
	assert.Equal(t, []byte("JPN"), msg.Headers[1].Value)
	assert.Equal(t, "occurrence_date", msg.Headers[2].Key)
	assert.Equal(t, []byte("2024-01-01"), msg.Headers[2].Value)
	assert.Equal(t, "scraped_at", msg.Headers[3].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[3].Value)
}

func TestMessageKey_WithoutURL(t *testing.T) {
	e := testEvent()
	e.URL = nil
	assert.Equal(t, []byte("2024-01-01|Earthquake in Japan"), messageKey(e))
}

func TestSerializeToMessage_UnresolvedCountry(t *testing.T) {
	e := testEvent()
	e.CountryISO3 = nil

	msg, err := serializeToMessage(e, time.Now())
	require.NoError(t, err)
	assert.Empty(t, msg.Headers[1].Value)
	assert.Contains(t, string(msg.Value), `"country_iso3":null`)
}

func TestPublishBatch(t *testing.T) {
	w := &mockWriter{}
	p := testPublisher(w)

	second := testEvent()
	second.Name = "Flood in Nepal"
	require.NoError(t, p.PublishBatch(context.Background(), []domain.Event{testEvent(), second}))

	assert.Equal(t, 1, w.calls)
	require.Len(t, w.written, 2)
	assert.Contains(t, string(w.written[1].Value), "Flood in Nepal")
}

func TestPublishBatch_Empty(t *testing.T) {
	w := &mockWriter{}
	require.NoError(t, testPublisher(w).PublishBatch(context.Background(), nil))
	assert.Equal(t, 0, w.calls)
}

func TestPublishBatch_RetriesThenSucceeds(t *testing.T) {
	w := &mockWriter{failures: 1}
	require.NoError(t, testPublisher(w).PublishBatch(context.Background(), []domain.Event{testEvent()}))
	assert.Equal(t, 2, w.calls)
	assert.Len(t, w.written, 1)
}

func TestPublishBatch_GivesUp(t *testing.T) {
	w := &mockWriter{failures: publishAttempts}
	err := testPublisher(w).PublishBatch(context.Background(), []domain.Event{testEvent()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish 1 events")
	assert.Equal(t, publishAttempts, w.calls)
}

func TestPublishBatch_CancelledDuringBackoff(t *testing.T) {
	w := &mockWriter{failures: publishAttempts}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := testPublisher(w).PublishBatch(ctx, []domain.Event{testEvent()})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, w.calls)
}
