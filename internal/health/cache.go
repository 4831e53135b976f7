package health

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/dealpulse/pkg/models"
)

// AnalysisCache caches computed analyses in process, keyed by a fingerprint
// of the full engine input so a changed deal never serves a stale result
type AnalysisCache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	Analysis   models.DealHealthAnalysis
	ExpiresAt  time.Time
	AccessedAt time.Time
}

// NewAnalysisCache creates an analysis cache with LRU eviction and TTL expiry
func NewAnalysisCache(maxSize int, ttl time.Duration) *AnalysisCache {
	cache := &AnalysisCache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}

	go cache.cleanup()

	return cache
}

// Get retrieves a cached analysis by deal and input fingerprint
func (c *AnalysisCache) Get(dealID, fingerprint string) (*models.DealHealthAnalysis, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[cacheKey(dealID, fingerprint)]
	if !exists || time.Now().After(entry.ExpiresAt) {
		return nil, false
	}

	entry.AccessedAt = time.Now()
	analysis := entry.Analysis
	return &analysis, true
}

// Set stores an analysis by deal and input fingerprint
func (c *AnalysisCache) Set(dealID, fingerprint string, analysis *models.DealHealthAnalysis) {
	if analysis == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictLRU()
	}

	c.entries[cacheKey(dealID, fingerprint)] = &cacheEntry{
		Analysis:   *analysis,
		ExpiresAt:  time.Now().Add(c.ttl),
		AccessedAt: time.Now(),
	}
}

// InvalidateDeal drops every cached analysis for a deal
func (c *AnalysisCache) InvalidateDeal(dealID string) {
	prefix := dealID + ":"

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// Clear empties the cache
func (c *AnalysisCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// Len returns the current entry count
func (c *AnalysisCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *AnalysisCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, entry := range c.entries {
		if oldestKey == "" || entry.AccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.AccessedAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func (c *AnalysisCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.entries {
			if now.After(entry.ExpiresAt) {
				delete(c.entries, key)
			}
		}
		c.mu.Unlock()
	}
}

func cacheKey(dealID, fingerprint string) string {
	return dealID + ":" + fingerprint
}

// Fingerprint derives a stable cache key from the complete engine input
func Fingerprint(dealID string, deal *models.Deal, benchmarks *models.BenchmarkData, prefs *models.AnalysisPreferences) string {
	h := fnv.New64a()
	h.Write([]byte(dealID))
	if data, err := json.Marshal(deal); err == nil {
		h.Write(data)
	}
	if benchmarks != nil {
		if data, err := json.Marshal(benchmarks); err == nil {
			h.Write(data)
		}
	}
	if prefs != nil {
		if data, err := json.Marshal(prefs); err == nil {
			h.Write(data)
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
