// Package cache provides the process-wide field-catalog cache with
// PostgreSQL LISTEN/NOTIFY invalidation across instances.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"tradereg/internal/domain/schema"
	"tradereg/pkg/logger"
)

// notifyChannel carries cross-instance invalidation events. The payload is
// the affected entity kind slug.
const notifyChannel = "field_catalog_changed"

// CatalogCache caches field definitions per entity kind. Readers on the hot
// path (record projection, exports) hit the in-memory copy; mutations
// invalidate synchronously after their transaction commits, so the next read
// in this process already sees the new catalog. Other instances catch up via
// NOTIFY.
type CatalogCache struct {
	pool   *pgxpool.Pool
	fields schema.FieldRepository

	mu      sync.RWMutex
	catalog map[schema.EntityKindSlug][]*schema.FieldDef

	// readTimeout bounds a cold-miss load so a slow database cannot stall
	// the request path; on timeout the caller's error propagates.
	readTimeout time.Duration

	lifecycleMu sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	started     bool
}

// NewCatalogCache creates a catalog cache backed by the field repository.
func NewCatalogCache(pool *pgxpool.Pool, fields schema.FieldRepository, readTimeout time.Duration) *CatalogCache {
	if readTimeout <= 0 {
		readTimeout = 3 * time.Second
	}
	return &CatalogCache{
		pool:        pool,
		fields:      fields,
		catalog:     make(map[schema.EntityKindSlug][]*schema.FieldDef),
		readTimeout: readTimeout,
	}
}

// Start warms the fixed kinds and begins listening for NOTIFY events.
func (c *CatalogCache) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	c.lifecycleMu.Lock()
	if c.started {
		c.lifecycleMu.Unlock()
		return nil
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.started = true
	c.lifecycleMu.Unlock()

	for _, kind := range schema.FixedKinds {
		if err := c.reload(c.ctx, kind); err != nil {
			c.Stop()
			return fmt.Errorf("warm catalog for %s: %w", kind, err)
		}
	}

	c.wg.Add(1)
	go c.listenLoop()
	logger.Info(c.ctx, "catalog cache started")
	return nil
}

// Stop gracefully stops the cache listener.
func (c *CatalogCache) Stop() {
	c.lifecycleMu.Lock()
	if !c.started {
		c.lifecycleMu.Unlock()
		return
	}
	cancel := c.cancel
	c.started = false
	c.cancel = nil
	c.lifecycleMu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
	logger.Info(context.Background(), "catalog cache stopped")
}

// Fields implements values.CatalogProvider. A cached kind is served from
// memory; a cold kind is loaded through the repository under the read
// timeout and cached for the next call.
func (c *CatalogCache) Fields(ctx context.Context, kind schema.EntityKindSlug, activeOnly bool) ([]*schema.FieldDef, error) {
	c.mu.RLock()
	cached, ok := c.catalog[kind]
	c.mu.RUnlock()

	if !ok {
		loadCtx, cancel := context.WithTimeout(ctx, c.readTimeout)
		defer cancel()
		loaded, err := c.fields.ListByKind(loadCtx, kind, false)
		if err != nil {
			return nil, fmt.Errorf("load catalog for %s: %w", kind, err)
		}
		c.mu.Lock()
		c.catalog[kind] = loaded
		c.mu.Unlock()
		cached = loaded
	}

	out := make([]*schema.FieldDef, 0, len(cached))
	for _, f := range cached {
		if activeOnly && !f.IsActive {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// Invalidate implements schema.CatalogInvalidator. The local copy reloads
// synchronously before this returns, so a reader in the same process never
// sees the stale catalog after a committed mutation. Peers are notified.
func (c *CatalogCache) Invalidate(ctx context.Context, kind schema.EntityKindSlug) {
	if err := c.reload(ctx, kind); err != nil {
		// A failed reload keeps the stale copy. Dropping the entry instead
		// forces the next read through the repository.
		logger.Error(ctx, "catalog reload failed, dropping cached kind",
			"entity_kind", string(kind), "error", err)
		c.mu.Lock()
		delete(c.catalog, kind)
		c.mu.Unlock()
	}

	if _, err := c.pool.Exec(ctx, "SELECT pg_notify($1, $2)", notifyChannel, string(kind)); err != nil {
		logger.Warn(ctx, "catalog invalidation notify failed",
			"entity_kind", string(kind), "error", err)
	}
}

func (c *CatalogCache) reload(ctx context.Context, kind schema.EntityKindSlug) error {
	fields, err := c.fields.ListByKind(ctx, kind, false)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.catalog[kind] = fields
	c.mu.Unlock()
	logger.Debug(ctx, "catalog reloaded", "entity_kind", string(kind), "fields", len(fields))
	return nil
}

// listenLoop listens for PostgreSQL NOTIFY events from other instances.
func (c *CatalogCache) listenLoop() {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		conn, err := c.pool.Acquire(c.ctx)
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			logger.Error(c.ctx, "failed to acquire connection for LISTEN", "error", err)
			time.Sleep(time.Second)
			continue
		}

		_, err = conn.Exec(c.ctx, "LISTEN "+notifyChannel)
		if err != nil {
			logger.Error(c.ctx, "failed to LISTEN", "error", err)
			conn.Release()
			time.Sleep(time.Second)
			continue
		}

		c.waitForNotifications(conn)
		conn.Release()
	}
}

func (c *CatalogCache) waitForNotifications(conn *pgxpool.Conn) {
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		// Timeout keeps shutdown responsive.
		ctx, cancel := context.WithTimeout(c.ctx, 30*time.Second)
		notification, err := conn.Conn().WaitForNotification(ctx)
		cancel()

		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			continue
		}

		kind := schema.EntityKindSlug(strings.TrimSpace(notification.Payload))
		if kind == "" {
			continue
		}
		if err := c.reload(c.ctx, kind); err != nil {
			logger.Error(c.ctx, "catalog reload from notification failed",
				"entity_kind", string(kind), "error", err)
		}
	}
}

// Stats reports what is cached, for the health endpoint.
type Stats struct {
	Kinds       int `json:"kinds"`
	TotalFields int `json:"totalFields"`
}

// GetStats returns current cache statistics.
func (c *CatalogCache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, fields := range c.catalog {
		total += len(fields)
	}
	return Stats{Kinds: len(c.catalog), TotalFields: total}
}
