package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/sentinel-eor/internal/domain"
	"github.com/couchcryptid/sentinel-eor/internal/observability"
)

// Store is the persistence the catalog reads from.
type Store interface {
	Load(ctx context.Context) ([]domain.Event, error)
	Save(ctx context.Context, events []domain.Event) error
	ModTime() (time.Time, error)
}

type snapshot struct {
	events   []domain.Event
	modTime  time.Time
	loadedAt time.Time
}

// Catalog serves an immutable snapshot of the collection. Readers never block on a
// scrape; a new collection replaces the snapshot reference as a whole.
type Catalog struct {
	store   Store
	logger  *slog.Logger
	metrics *observability.Metrics

	current atomic.Pointer[snapshot]
	reload  sync.Mutex
}

// NewCatalog creates a Catalog with an empty snapshot. Call Load to read the store.
func NewCatalog(store Store, logger *slog.Logger, metrics *observability.Metrics) *Catalog {
	c := &Catalog{store: store, logger: logger, metrics: metrics}
	c.current.Store(&snapshot{events: []domain.Event{}})
	return c
}

// Load reads the store into a new snapshot. A missing or unreadable document leaves the
// catalog empty; the condition is logged and never returned.
func (c *Catalog) Load(ctx context.Context) {
	c.reload.Lock()
	defer c.reload.Unlock()
	c.load(ctx, false)
}

// Events returns the current collection, first picking up a store document that changed
// on disk since it was last read. The returned slice must not be modified.
func (c *Catalog) Events(ctx context.Context) []domain.Event {
	snap := c.current.Load()
	if modTime, err := c.store.ModTime(); err == nil && !modTime.Equal(snap.modTime) {
		c.reload.Lock()
		if cur := c.current.Load(); !modTime.Equal(cur.modTime) {
			c.load(ctx, true)
		}
		c.reload.Unlock()
		snap = c.current.Load()
	}
	return snap.events
}

// Replace installs events as the current collection, typically right after they were
// saved to the store.
func (c *Catalog) Replace(events []domain.Event) {
	if events == nil {
		events = []domain.Event{}
	}
	modTime, _ := c.store.ModTime()

	c.reload.Lock()
	defer c.reload.Unlock()
	c.current.Store(&snapshot{events: events, modTime: modTime, loadedAt: domain.Now()})
}

// LoadedAt reports when the current snapshot was installed. Zero means never.
func (c *Catalog) LoadedAt() time.Time {
	return c.current.Load().loadedAt
}

// load must be called with c.reload held. When keepOnError is set, a document that fails
// to decode leaves the previous snapshot in place.
func (c *Catalog) load(ctx context.Context, keepOnError bool) {
	modTime, _ := c.store.ModTime()
	events, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		c.logger.Warn("events document not found, serving an empty collection")
		events = []domain.Event{}
	case err != nil:
		c.metrics.StoreLoadErrors.Inc()
		if keepOnError {
			c.logger.Warn("events document unreadable, keeping previous collection", "error", err)
			prev := c.current.Load()
			c.current.Store(&snapshot{events: prev.events, modTime: modTime, loadedAt: prev.loadedAt})
			return
		}
		c.logger.Warn("events document unreadable, serving an empty collection", "error", err)
		events = []domain.Event{}
	}

	c.current.Store(&snapshot{events: events, modTime: modTime, loadedAt: domain.Now()})
	c.logger.Info("events loaded", "events", len(events))
}
