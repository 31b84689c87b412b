package tracker

import (
	"sync"
	"time"
)

// ListFields is the tracker's per-list field metadata, mapping our stage
// names to the tracker's option values.
type ListFields struct {
	StageOptions map[string]string `json:"stage_options"`
}

// FieldCache holds list field metadata with TTL invalidation, so every
// stage write does not refetch metadata that rarely changes.
type FieldCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	fields    *ListFields
	fetchedAt time.Time
}

// NewFieldCache creates a cache with the given TTL.
func NewFieldCache(ttl time.Duration) *FieldCache {
	return &FieldCache{ttl: ttl}
}

// Get returns the cached metadata, or nil when empty or expired.
func (c *FieldCache) Get() *ListFields {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fields == nil || time.Since(c.fetchedAt) > c.ttl {
		return nil
	}
	return c.fields
}

// Put stores fresh metadata.
func (c *FieldCache) Put(fields *ListFields) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = fields
	c.fetchedAt = time.Now()
}

// Invalidate drops the cached metadata immediately.
func (c *FieldCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = nil
}
