package cache

import (
	"context"
	"sync"
)

// Loader produces the value for a key on a cache miss
type Loader[K comparable, V any] func(ctx context.Context, key K) (V, error)

// store is the backing value store behind a Keyed cache. Implementations are
// not safe for concurrent use on their own; Keyed serializes all access.
type store[K comparable, V any] interface {
	get(key K) (V, bool)
	add(key K, value V)
	purge()
	len() int
}

// mapStore is the unbounded policy: entries never expire, explicit purge only
type mapStore[K comparable, V any] struct {
	values map[K]V
}

func newMapStore[K comparable, V any]() *mapStore[K, V] {
	return &mapStore[K, V]{values: make(map[K]V)}
}

func (s *mapStore[K, V]) get(key K) (V, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *mapStore[K, V]) add(key K, value V) {
	s.values[key] = value
}

func (s *mapStore[K, V]) purge() {
	s.values = make(map[K]V)
}

func (s *mapStore[K, V]) len() int {
	return len(s.values)
}

// inflight tracks one in-progress load shared by all concurrent requesters
type inflight[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// Keyed is a get-or-load cache guaranteeing at most one concurrent load per
// key. Concurrent requesters for the same key share the load's single result.
// A failed load caches nothing and clears the in-flight marker, so the next
// call retries from scratch.
type Keyed[K comparable, V any] struct {
	mu      sync.Mutex
	values  store[K, V]
	loading map[K]*inflight[V]
}

// NewKeyed creates an unbounded keyed cache
func NewKeyed[K comparable, V any]() *Keyed[K, V] {
	return &Keyed[K, V]{
		values:  newMapStore[K, V](),
		loading: make(map[K]*inflight[V]),
	}
}

func newKeyedWithStore[K comparable, V any](s store[K, V]) *Keyed[K, V] {
	return &Keyed[K, V]{
		values:  s,
		loading: make(map[K]*inflight[V]),
	}
}

// GetOrLoad returns the cached value for key, joining an in-flight load when
// one exists, and otherwise running loader itself. Waiters detach when their
// own ctx is cancelled; the load keeps its marker until it finishes, and the
// marker is always cleared afterwards so a cancelled or failed load cannot
// poison future requests for the key.
func (c *Keyed[K, V]) GetOrLoad(ctx context.Context, key K, loader Loader[K, V]) (V, error) {
	c.mu.Lock()
	if v, ok := c.values.get(key); ok {
		c.mu.Unlock()
		return v, nil
	}
	if fl, ok := c.loading[key]; ok {
		c.mu.Unlock()
		select {
		case <-fl.done:
			return fl.value, fl.err
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}

	fl := &inflight[V]{done: make(chan struct{})}
	c.loading[key] = fl
	c.mu.Unlock()

	fl.value, fl.err = loader(ctx, key)

	c.mu.Lock()
	delete(c.loading, key)
	if fl.err == nil {
		c.values.add(key, fl.value)
	}
	c.mu.Unlock()
	close(fl.done)

	return fl.value, fl.err
}

// Get returns the cached value without triggering a load
func (c *Keyed[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.get(key)
}

// Clear discards all cached values. In-flight loads are unaffected; they
// store their result when they complete.
func (c *Keyed[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values.purge()
}

// Len returns the number of cached values
func (c *Keyed[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.len()
}
