// Package repository stores first-touch attribution per visitor session.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"quote_portal_backend/platform/cache"
)

// Params are the campaign parameters captured for a session. Empty fields were not seen.
type Params struct {
	Source   string `json:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty"`
	Term     string `json:"utm_term,omitempty"`
	Content  string `json:"utm_content,omitempty"`
}

// Store keeps one attribution set per session.
type Store interface {
	Get(ctx context.Context, sessionID string) (Params, bool, error)
	// SetIfAbsent stores p only when the session has nothing stored and reports whether it did.
	SetIfAbsent(ctx context.Context, sessionID string, p Params) (bool, error)
	Clear(ctx context.Context, sessionID string) error
}

func sessionKey(sessionID string) string {
	return cache.Key("attribution", "session", sessionID)
}

// RedisStore keeps attribution in Redis with a TTL set at the first write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (Params, bool, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Params{}, false, nil
	}
	if err != nil {
		return Params{}, false, fmt.Errorf("read attribution: %w", err)
	}

	var p Params
	if err := json.Unmarshal(raw, &p); err != nil {
		return Params{}, false, fmt.Errorf("decode attribution: %w", err)
	}
	return p, true, nil
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, sessionID string, p Params) (bool, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("encode attribution: %w", err)
	}
	ok, err := s.client.SetNX(ctx, sessionKey(sessionID), raw, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("write attribution: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("clear attribution: %w", err)
	}
	return nil
}

type memoryEntry struct {
	params    Params
	expiresAt time.Time
}

// MemoryStore is a process-local store used when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore creates an in-process store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (Params, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookup(sessionID)
	return e.params, ok, nil
}

func (s *MemoryStore) SetIfAbsent(_ context.Context, sessionID string, p Params) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lookup(sessionID); ok {
		return false, nil
	}
	s.entries[sessionID] = memoryEntry{params: p, expiresAt: s.now().Add(s.ttl)}
	return true, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}

// Prune drops expired sessions and returns how many were removed.
func (s *MemoryStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// lookup must be called with mu held.
func (s *MemoryStore) lookup(sessionID string) (memoryEntry, bool) {
	e, ok := s.entries[sessionID]
	if !ok {
		return memoryEntry{}, false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, sessionID)
		return memoryEntry{}, false
	}
	return e, true
}
