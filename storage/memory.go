package storage

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// shard represents a single shard of data with its own lock
type shard struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// MemoryStore is an in-memory key-value store. Keys are hashed onto shards
// so concurrent sessions rarely contend on the same lock. Values are copied
// in and out, so a caller never observes a partially written value.
type MemoryStore struct {
	shards    []shard
	shardMask uint64
}

// Option is a function that configures a MemoryStore instance
type Option func(*MemoryStore)

// WithShardCount sets the number of shards for the store. The number is
// rounded up to the next power of 2 so shard selection stays a mask.
func WithShardCount(count int) Option {
	return func(s *MemoryStore) {
		if count > 0 {
			n := nextPowerOf2(count)
			s.shards = make([]shard, n)
			s.shardMask = uint64(n - 1)
		}
	}
}

// NewMemory creates a new in-memory store with the default number of
// shards (16).
func NewMemory(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		shards:    make([]shard, 16),
		shardMask: 15,
	}

	for _, opt := range opts {
		opt(s)
	}

	for i := range s.shards {
		s.shards[i].data = make(map[string][]byte)
	}

	return s
}

// nextPowerOf2 returns the next power of 2 >= n
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// keyShard returns the shard responsible for a key
func (s *MemoryStore) keyShard(key string) *shard {
	return &s.shards[xxhash.Sum64String(key)&s.shardMask]
}

// Get retrieves a value by key. The returned slice is a copy and safe to
// hold across later writes.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	sh := s.keyShard(key)

	sh.mu.RLock()
	value, exists := sh.data[key]
	if !exists {
		sh.mu.RUnlock()
		return nil, false
	}

	result := make([]byte, len(value))
	copy(result, value)
	sh.mu.RUnlock()

	return result, true
}

// Set stores a value under a key, replacing any previous value
func (s *MemoryStore) Set(key string, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)

	sh := s.keyShard(key)
	sh.mu.Lock()
	sh.data[key] = stored
	sh.mu.Unlock()
}

// Delete removes a key and reports whether it existed
func (s *MemoryStore) Delete(key string) bool {
	sh := s.keyShard(key)

	sh.mu.Lock()
	_, existed := sh.data[key]
	delete(sh.data, key)
	sh.mu.Unlock()

	return existed
}

// Len returns the number of keys across all shards
func (s *MemoryStore) Len() int {
	total := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		total += len(sh.data)
		sh.mu.RUnlock()
	}
	return total
}
