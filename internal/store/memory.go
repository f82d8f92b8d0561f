package store

import (
	"context"
	"path"
	"sync"
	"time"
)

type memoryEntry struct {
	value    []byte
	expireAt time.Time // zero = no expiry
}

type memorySet struct {
	members  map[string]struct{}
	expireAt time.Time
}

// MemoryStore is an in-process Store with per-key TTL. Expired keys are
// dropped lazily on access.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	sets map[string]*memorySet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]memoryEntry),
		sets: make(map[string]*memorySet),
	}
}

func expired(at time.Time) bool {
	return !at.IsZero() && time.Now().After(at)
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expireAt = time.Now().Add(ttl)
	}
	s.data[key] = entry
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	if expired(entry.expireAt) {
		delete(s.data, key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.value...), nil
}

func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
		delete(s.sets, key)
	}
	return nil
}

func (s *MemoryStore) SAdd(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[key]
	if !ok || expired(set.expireAt) {
		set = &memorySet{members: make(map[string]struct{})}
		s.sets[key] = set
	}
	for _, m := range members {
		set.members[m] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) SRem(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[key]
	if !ok || expired(set.expireAt) {
		delete(s.sets, key)
		return nil
	}
	for _, m := range members {
		delete(set.members, m)
	}
	return nil
}

func (s *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[key]
	if !ok || expired(set.expireAt) {
		return nil, nil
	}
	members := make([]string, 0, len(set.members))
	for m := range set.members {
		members = append(members, m)
	}
	return members, nil
}

func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	expireAt := time.Now().Add(ttl)
	if entry, ok := s.data[key]; ok {
		entry.expireAt = expireAt
		s.data[key] = entry
	}
	if set, ok := s.sets[key]; ok {
		set.expireAt = expireAt
	}
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key, entry := range s.data {
		if expired(entry.expireAt) {
			delete(s.data, key)
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	for key, set := range s.sets {
		if expired(set.expireAt) {
			delete(s.sets, key)
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]memoryEntry)
	s.sets = make(map[string]*memorySet)
	return nil
}
