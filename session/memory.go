package session

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryRepository is an in-process Repository with TTL eviction. Idle
// sessions expire; an expired session simply means the user starts over
// with a new search.
type MemoryRepository struct {
	cache *cache.Cache
}

// NewMemoryRepository creates a repository whose entries expire after ttl
// of inactivity, purging every 10 minutes.
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *MemoryRepository) Get(userID string) (*Session, bool) {
	if x, found := r.cache.Get(userID); found {
		return x.(*Session), true
	}
	return nil, false
}

func (r *MemoryRepository) Put(userID string, s *Session) {
	r.cache.Set(userID, s, cache.DefaultExpiration)
}

func (r *MemoryRepository) Delete(userID string) {
	r.cache.Delete(userID)
}

// KeyedMutex serializes work per key. Two messages from the same user are
// processed one at a time so the second always sees the first's completed
// state; distinct users proceed concurrently.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock locks the mutex for key and returns the unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
