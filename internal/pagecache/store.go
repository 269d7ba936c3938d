// Package pagecache holds rendered pages for a fixed time-to-live. Entries
// only leave the cache when they expire or when the whole cache is reset;
// writes to the underlying data never touch it.
package pagecache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "pagecache:"

// Store satisfies fiber.Storage so it can back fiber's cache middleware.
type Store struct {
	redis *redis.Client
	mem   *memoryStore
}

// New returns a redis-backed store, or an in-process one when rdb is nil.
func New(rdb *redis.Client) *Store {
	if rdb != nil {
		return &Store{redis: rdb}
	}
	return &Store{mem: newMemoryStore(time.Now)}
}

func (s *Store) Get(key string) ([]byte, error) {
	if s.mem != nil {
		return s.mem.get(key), nil
	}
	val, err := s.redis.Get(context.Background(), keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *Store) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if s.mem != nil {
		s.mem.set(key, val, exp)
		return nil
	}
	return s.redis.Set(context.Background(), keyPrefix+key, val, exp).Err()
}

func (s *Store) Delete(key string) error {
	if s.mem != nil {
		s.mem.delete(key)
		return nil
	}
	return s.redis.Del(context.Background(), keyPrefix+key).Err()
}

// Reset drops every cached page. Only keys under the cache prefix are
// removed; the rest of the redis keyspace is left alone.
func (s *Store) Reset() error {
	if s.mem != nil {
		s.mem.reset()
		return nil
	}

	ctx := context.Background()
	iter := s.redis.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.redis.Del(ctx, keys...).Err()
}

// Close is a no-op: the redis client is owned by the caller.
func (s *Store) Close() error {
	return nil
}

type memoryEntry struct {
	val     []byte
	expires time.Time
}

// memoryStore is the single-process fallback used when redis is not configured.
type memoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

func newMemoryStore(now func() time.Time) *memoryStore {
	return &memoryStore{now: now, entries: map[string]memoryEntry{}}
}

func (m *memoryStore) get(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return nil
	}
	return e.val
}

func (m *memoryStore) set(key string, val []byte, exp time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{val: append([]byte(nil), val...)}
	if exp > 0 {
		e.expires = m.now().Add(exp)
	}
	m.entries[key] = e
}

func (m *memoryStore) delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *memoryStore) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = map[string]memoryEntry{}
}
