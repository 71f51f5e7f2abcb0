// Package kv is the server-side stand-in for browser local storage: three
// independent keys per session, written whenever the in-memory value changes
// and read once when a session is first seen. Writes are best-effort and
// last-write-wins; a failed write is logged, never surfaced.
package kv

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the minimal key/value surface the session layer needs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Del(ctx context.Context, key string)
}

// sessionTTL bounds how long an idle session's slices survive in Redis.
const sessionTTL = 30 * 24 * time.Hour

type RedisStore struct {
	conn *redis.Client
}

func NewRedisStore(conn *redis.Client) *RedisStore {
	return &RedisStore{conn: conn}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	val, err := s.conn.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Println("kv get error:", err)
		return "", false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key, value string) {
	if err := s.conn.Set(ctx, key, value, sessionTTL).Err(); err != nil {
		log.Println("kv set error:", err)
	}
}

func (s *RedisStore) Del(ctx context.Context, key string) {
	if err := s.conn.Del(ctx, key).Err(); err != nil {
		log.Println("kv del error:", err)
	}
}

// MemoryStore backs sessions when Redis is absent. State lives for the
// process lifetime only.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok
}

func (s *MemoryStore) Set(_ context.Context, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *MemoryStore) Del(_ context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}
