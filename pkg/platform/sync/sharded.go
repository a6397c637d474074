// Package sync provides per-key serialization for in-process critical sections.
package sync

import (
	"hash/fnv"
	"sync"
)

const shardCount = 64

// ShardedMutex serializes work on the same key while letting unrelated keys
// proceed in parallel. Keys are spread across a fixed set of mutexes, so two
// distinct keys may occasionally share a shard; that only costs throughput.
type ShardedMutex struct {
	shards [shardCount]sync.Mutex
}

func NewShardedMutex() *ShardedMutex {
	return &ShardedMutex{}
}

// Lock acquires the shard for key and returns the matching unlock function.
//
//	unlock := m.Lock(consentKey)
//	defer unlock()
func (m *ShardedMutex) Lock(key string) (unlock func()) {
	mu := &m.shards[shardFor(key)]
	mu.Lock()
	return mu.Unlock
}

// WithLock runs fn while holding the shard for key.
func (m *ShardedMutex) WithLock(key string, fn func() error) error {
	unlock := m.Lock(key)
	defer unlock()
	return fn()
}

func shardFor(key string) uint32 {
	if key == "" {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % shardCount
}
