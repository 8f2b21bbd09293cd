package embeddings

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is used when NewCache is given a non-positive size.
const DefaultCacheSize = 1000

// Cache memoizes embeddings by the SHA-256 of their text. It holds at most
// maxSize vectors and evicts the oldest inserted entry first. With a TTL,
// entries older than the TTL are treated as misses and dropped. A single
// Cache is meant to be shared by every caller in the process.
//
// Returned vectors are shared between callers and must not be modified.
type Cache struct {
	embedder Embedder
	maxSize  int
	timeout  time.Duration
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	entries   map[string]*list.Element
	order     *list.List // front is the oldest insert
	hits      uint64
	misses    uint64
	evictions uint64
	expired   uint64

	flight singleflight.Group
}

type cacheEntry struct {
	key        string
	vec        []float32
	insertedAt time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL expires entries ttl after insertion. A non-positive ttl keeps
// entries until they are evicted.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Model     string  `json:"model"`
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	Expired   uint64  `json:"expired"`
	TTLSecs   int     `json:"ttl_secs"`
	HitRate   float64 `json:"hit_rate"`
}

// NewCache creates a cache in front of embedder. embedder may be nil, in
// which case every miss fails with ErrEmbeddingUnavailable. A positive
// timeout bounds each embedder call.
func NewCache(embedder Embedder, maxSize int, timeout time.Duration, opts ...CacheOption) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	c := &Cache{
		embedder: embedder,
		maxSize:  maxSize,
		timeout:  timeout,
		now:      time.Now,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key for text.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Available reports whether an embedder is configured.
func (c *Cache) Available() bool {
	return c != nil && c.embedder != nil
}

// GetOrCompute returns the embedding of text, calling the embedder only on a
// miss. Concurrent misses for the same text share one embedder call.
func (c *Cache) GetOrCompute(ctx context.Context, text string) ([]float32, error) {
	if !c.Available() {
		return nil, ErrEmbeddingUnavailable
	}

	key := Key(text)
	c.mu.Lock()
	if vec, ok := c.lookupLocked(key); ok {
		c.hits++
		c.mu.Unlock()
		return vec, nil
	}
	c.misses++
	c.mu.Unlock()

	v, err, _ := c.flight.Do(key, func() (any, error) {
		if vec, ok := c.peek(key); ok {
			return vec, nil
		}
		vec, err := c.compute(ctx, text)
		if err != nil {
			return nil, err
		}
		c.insert(key, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]float32), nil
}

func (c *Cache) compute(ctx context.Context, text string) ([]float32, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	vecs, err := c.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingUnavailable, err)
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("%w: %s returned no vector", ErrEmbeddingUnavailable, c.embedder.Name())
	}
	return vecs[0], nil
}

func (c *Cache) peek(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookupLocked(key)
}

// lookupLocked returns the live entry for key, dropping it if expired.
// c.mu must be held.
func (c *Cache) lookupLocked(key string) ([]float32, bool) {
	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*cacheEntry)
	if c.ttl > 0 && c.now().Sub(e.insertedAt) >= c.ttl {
		c.order.Remove(el)
		delete(c.entries, key)
		c.expired++
		return nil, false
	}
	return e.vec, true
}

func (c *Cache) insert(key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*cacheEntry)
		e.vec = vec
		e.insertedAt = c.now()
		return
	}
	for c.order.Len() >= c.maxSize {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.evictions++
	}
	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, vec: vec, insertedAt: c.now()})
}

// Len returns the number of cached vectors.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Size:      c.order.Len(),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Expired:   c.expired,
		TTLSecs:   int(c.ttl / time.Second),
	}
	if c.embedder != nil {
		s.Model = c.embedder.Name()
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// Clear drops every entry and resets the counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	c.hits, c.misses, c.evictions, c.expired = 0, 0, 0, 0
}
