// Package research produces structured equity research reports by invoking
// model providers with report-specific prompts and schemas.
package research

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prospecto/internal/common"
	"github.com/ternarybob/prospecto/internal/interfaces"
	"github.com/ternarybob/prospecto/internal/models"
)

// CacheService holds report payloads in memory with per-kind freshness
// windows. Market and IPO list slots are mirrored into the key/value store
// so warm results survive a restart; screener slots live only for the
// process lifetime. Persistence failures are logged and swallowed: the
// cache degrades to memory-only rather than failing a request.
type CacheService struct {
	config common.CacheConfig
	kv     interfaces.KeyValueStorage // nil for memory-only operation
	logger arbor.ILogger

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	payload   string
	fetchedAt time.Time
}

// persistedEntry is the stored shape of a cache slot.
type persistedEntry struct {
	FetchedAt time.Time `json:"fetched_at"`
	Payload   string    `json:"payload"`
}

func NewCacheService(config common.CacheConfig, kv interfaces.KeyValueStorage, logger arbor.ILogger) *CacheService {
	return &CacheService{
		config:  config,
		kv:      kv,
		logger:  logger,
		entries: make(map[string]cacheEntry),
	}
}

// TTLFor returns the freshness window for a report kind. Zero for kinds that
// are never cached.
func (c *CacheService) TTLFor(kind models.ReportKind) time.Duration {
	switch kind {
	case models.ReportKindMarket:
		return c.config.MarketTTL
	case models.ReportKindScreener:
		return c.config.ScreenerTTL
	case models.ReportKindIPOList:
		return c.config.IPOListTTL
	}
	return 0
}

func cacheSlotKey(kind models.ReportKind, key string) string {
	return "cache:" + string(kind) + ":" + key
}

// persisted reports whether a kind's slots are mirrored into storage.
// Screener queries are too varied to be worth warming across restarts.
func persisted(kind models.ReportKind) bool {
	return kind == models.ReportKindMarket || kind == models.ReportKindIPOList
}

// Get unmarshals a fresh cached payload into v. Memory is checked first,
// then the persisted slot; a persisted hit is promoted back into memory.
// Returns false for uncacheable kinds, misses, and stale entries.
func (c *CacheService) Get(ctx context.Context, kind models.ReportKind, key string, v interface{}) bool {
	ttl := c.TTLFor(kind)
	if !kind.Cacheable() || ttl <= 0 {
		return false
	}

	slot := cacheSlotKey(kind, key)

	c.mu.RLock()
	entry, ok := c.entries[slot]
	c.mu.RUnlock()

	if !ok && c.kv != nil && persisted(kind) {
		entry, ok = c.loadPersisted(ctx, slot)
		if ok {
			c.mu.Lock()
			c.entries[slot] = entry
			c.mu.Unlock()
		}
	}

	if !ok || time.Since(entry.fetchedAt) >= ttl {
		return false
	}

	if err := json.Unmarshal([]byte(entry.payload), v); err != nil {
		c.logger.Warn().Err(err).Str("slot", slot).Msg("Discarding unreadable cache entry")
		return false
	}

	c.logger.Debug().
		Str("slot", slot).
		Dur("age", time.Since(entry.fetchedAt)).
		Msg("Cache hit")
	return true
}

// Put stores a report payload in memory, plus the persisted slot for
// kinds that survive restart.
func (c *CacheService) Put(ctx context.Context, kind models.ReportKind, key string, v interface{}) {
	if !kind.Cacheable() {
		return
	}

	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to marshal report for cache")
		return
	}

	slot := cacheSlotKey(kind, key)
	entry := cacheEntry{payload: string(payload), fetchedAt: time.Now()}

	c.mu.Lock()
	c.entries[slot] = entry
	c.mu.Unlock()

	if c.kv == nil || !persisted(kind) {
		return
	}

	stored, err := json.Marshal(persistedEntry{FetchedAt: entry.fetchedAt, Payload: entry.payload})
	if err != nil {
		return
	}
	if err := c.kv.Set(ctx, slot, string(stored)); err != nil {
		c.logger.Warn().Err(err).Str("slot", slot).Msg("Failed to persist cache slot")
	}
}

// Invalidate drops a slot from memory and storage.
func (c *CacheService) Invalidate(ctx context.Context, kind models.ReportKind, key string) {
	slot := cacheSlotKey(kind, key)

	c.mu.Lock()
	delete(c.entries, slot)
	c.mu.Unlock()

	if c.kv != nil && persisted(kind) {
		if err := c.kv.Delete(ctx, slot); err != nil && err != interfaces.ErrKeyNotFound {
			c.logger.Warn().Err(err).Str("slot", slot).Msg("Failed to delete cache slot")
		}
	}
}

func (c *CacheService) loadPersisted(ctx context.Context, slot string) (cacheEntry, bool) {
	raw, err := c.kv.Get(ctx, slot)
	if err != nil {
		if err != interfaces.ErrKeyNotFound {
			c.logger.Warn().Err(err).Str("slot", slot).Msg("Failed to read cache slot")
		}
		return cacheEntry{}, false
	}

	var stored persistedEntry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		c.logger.Warn().Err(err).Str("slot", slot).Msg("Discarding corrupt cache slot")
		return cacheEntry{}, false
	}

	return cacheEntry{payload: stored.Payload, fetchedAt: stored.FetchedAt}, true
}
