// Package cache is the read-through cache for VPN API reads.
//
// Entries live in two tiers: an in-memory map holding typed values and the
// persistent kvstore holding JSON envelopes {"updatedAt": ms, "value": ...}.
// The memory tier only keeps entries younger than the retention; older ones
// are read back from the store.
// Envelopes are never mutated; a write replaces the whole entry. There is no
// single-flight: two callers that both see a stale entry both fetch, and the
// last write wins.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"vpn-storefront/internal/common/metrics"
	"vpn-storefront/internal/platform/kvstore"
)

// Envelope wraps a cached value with the time it was written.
type Envelope[T any] struct {
	UpdatedAt time.Time
	Value     T
}

type storedEnvelope struct {
	UpdatedAt *float64        `json:"updatedAt"`
	Value     json.RawMessage `json:"value"`
}

// IsFresh reports whether an entry written at updatedAt is still usable at
// now. The boundary is inclusive; a negative maxAge behaves as zero.
func IsFresh(updatedAt, now time.Time, maxAge time.Duration) bool {
	if maxAge < 0 {
		maxAge = 0
	}
	return now.Sub(updatedAt) <= maxAge
}

const (
	// DefaultMemoryRetention matches the longest default max age (plans).
	DefaultMemoryRetention = 12 * time.Hour
	memorySweepInterval    = time.Minute
)

// memoryEntry holds a typed *Envelope[T] and its write time.
type memoryEntry struct {
	updatedAt time.Time
	env       any
}

type CacheService struct {
	store     kvstore.Store
	now       func() time.Time
	logger    zerolog.Logger
	retention time.Duration

	mu        sync.RWMutex
	memory    map[string]memoryEntry
	lastSweep time.Time
}

type ServiceOption func(*CacheService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(c *CacheService) { c.now = now }
}

func WithLogger(l zerolog.Logger) ServiceOption {
	return func(c *CacheService) { c.logger = l }
}

// WithMemoryRetention bounds how long an entry stays in the memory tier.
// Older entries are served from the store instead.
func WithMemoryRetention(d time.Duration) ServiceOption {
	return func(c *CacheService) {
		if d > 0 {
			c.retention = d
		}
	}
}

func NewCacheService(store kvstore.Store, opts ...ServiceOption) *CacheService {
	c := &CacheService{
		store:     store,
		now:       time.Now,
		logger:    zerolog.Nop(),
		retention: DefaultMemoryRetention,
		memory:    make(map[string]memoryEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the cache clock.
func (c *CacheService) Now() time.Time {
	return c.now()
}

// Invalidate drops the entry from both tiers.
func (c *CacheService) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.memory, key)
	c.mu.Unlock()

	if err := c.store.Remove(ctx, key); err != nil {
		return err
	}
	return nil
}

// Write stores value in both tiers with the current time.
func Write[T any](ctx context.Context, c *CacheService, key string, value T) error {
	env := &Envelope[T]{UpdatedAt: c.now(), Value: value}
	c.remember(key, env.UpdatedAt, env)

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ms := float64(env.UpdatedAt.UnixMilli())
	payload, err := json.Marshal(storedEnvelope{UpdatedAt: &ms, Value: raw})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, string(payload))
}

// Entry returns the envelope for key regardless of its age.
func Entry[T any](ctx context.Context, c *CacheService, key string) (*Envelope[T], bool) {
	c.mu.RLock()
	entry, ok := c.memory[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.updatedAt) <= c.retention {
		if env, ok := entry.env.(*Envelope[T]); ok {
			return env, true
		}
	}

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			c.logger.Warn().Err(err).Str("key", key).Msg("cache store read failed")
		}
		return nil, false
	}
	if raw == "" {
		return nil, false
	}

	env, err := decodeEnvelope[T](raw)
	if err != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("purging malformed cache entry")
		if rmErr := c.store.Remove(ctx, key); rmErr != nil {
			c.logger.Warn().Err(rmErr).Str("key", key).Msg("cache purge failed")
		}
		return nil, false
	}

	c.remember(key, env.UpdatedAt, env)
	return env, true
}

// remember puts an entry in the memory tier unless it is already past the
// retention, and sweeps expired entries at most once per sweep interval.
func (c *CacheService) remember(key string, updatedAt time.Time, env any) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(updatedAt) <= c.retention {
		c.memory[key] = memoryEntry{updatedAt: updatedAt, env: env}
	} else {
		delete(c.memory, key)
	}

	if now.Sub(c.lastSweep) < memorySweepInterval {
		return
	}
	c.lastSweep = now
	for k, e := range c.memory {
		if now.Sub(e.updatedAt) > c.retention {
			delete(c.memory, k)
		}
	}
}

func (c *CacheService) memoryLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

var errMalformed = errors.New("malformed cache envelope")

func decodeEnvelope[T any](raw string) (*Envelope[T], error) {
	var stored storedEnvelope
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}
	if stored.UpdatedAt == nil || math.IsNaN(*stored.UpdatedAt) || math.IsInf(*stored.UpdatedAt, 0) {
		return nil, errMalformed
	}
	var value T
	if len(stored.Value) > 0 {
		if err := json.Unmarshal(stored.Value, &value); err != nil {
			return nil, err
		}
	}
	return &Envelope[T]{
		UpdatedAt: time.UnixMilli(int64(*stored.UpdatedAt)),
		Value:     value,
	}, nil
}

// ReadCached returns the value only when a fresh entry exists. It never
// calls the network.
func ReadCached[T any](ctx context.Context, c *CacheService, key string, maxAge time.Duration) (T, bool) {
	var zero T
	env, ok := Entry[T](ctx, c, key)
	if !ok || !IsFresh(env.UpdatedAt, c.now(), maxAge) {
		return zero, false
	}
	return env.Value, true
}

// GetCached serves a fresh entry without calling fetch; otherwise it calls
// fetch, writes the result to both tiers and returns it. When fetch fails
// and stale fallback is allowed, any existing entry is returned instead.
func GetCached[T any](ctx context.Context, c *CacheService, key string, fetch func(context.Context) (T, error), opts ...Option) (T, error) {
	o := resolveOptions(opts)
	lookups := metrics.CacheLookupsTotal.MustCurryWith(map[string]string{"resource": resource(key)})
	env, cached := Entry[T](ctx, c, key)

	if !o.forceRefresh && cached && IsFresh(env.UpdatedAt, c.now(), o.maxAge) {
		lookups.WithLabelValues("fresh").Inc()
		return env.Value, nil
	}

	fresh, err := fetch(ctx)
	if err != nil {
		if o.allowStaleOnError && cached {
			lookups.WithLabelValues("stale").Inc()
			c.logger.Debug().Err(err).Str("key", key).Msg("serving stale cache entry")
			return env.Value, nil
		}
		lookups.WithLabelValues("miss").Inc()
		var zero T
		return zero, err
	}
	lookups.WithLabelValues("refreshed").Inc()

	if err := Write(ctx, c, key, fresh); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return fresh, nil
}
