package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// lruByteStore bounds image bytes by entry count (delegated to the LRU) and
// by a total byte budget, evicting least-recently-used entries past either
// limit. Access is serialized by the owning Keyed cache.
type lruByteStore struct {
	lru      *lru.Cache[string, []byte]
	bytes    int
	maxBytes int
}

func newLRUByteStore(maxEntries, maxBytes int) (*lruByteStore, error) {
	s := &lruByteStore{maxBytes: maxBytes}
	l, err := lru.NewWithEvict(maxEntries, func(_ string, value []byte) {
		s.bytes -= len(value)
	})
	if err != nil {
		return nil, err
	}
	s.lru = l
	return s, nil
}

func (s *lruByteStore) get(key string) ([]byte, bool) {
	return s.lru.Get(key)
}

func (s *lruByteStore) add(key string, value []byte) {
	if len(value) > s.maxBytes {
		// Never admit a single asset larger than the whole budget
		return
	}
	if old, ok := s.lru.Peek(key); ok {
		s.bytes -= len(old)
	}
	s.lru.Add(key, value)
	s.bytes += len(value)
	for s.bytes > s.maxBytes && s.lru.Len() > 0 {
		s.lru.RemoveOldest()
	}
}

func (s *lruByteStore) purge() {
	s.lru.Purge()
}

func (s *lruByteStore) len() int {
	return s.lru.Len()
}

// Images is the bounded deduplicating cache for binary image assets
type Images struct {
	*Keyed[string, []byte]
	store *lruByteStore
}

// NewImages creates an image cache bounded by entry count and total bytes
func NewImages(maxEntries, maxBytes int) (*Images, error) {
	s, err := newLRUByteStore(maxEntries, maxBytes)
	if err != nil {
		return nil, err
	}
	return &Images{
		Keyed: newKeyedWithStore[string, []byte](s),
		store: s,
	}, nil
}

// Bytes returns the total size of cached image data
func (c *Images) Bytes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.bytes
}
