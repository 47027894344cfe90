package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "chatsession:"

// SessionStore maps (user, persona) to the agent-side session ID so that
// consecutive /chat calls continue the same conversation. The session
// itself lives in the agent service; this is only the pointer to it.
type SessionStore interface {
	Get(ctx context.Context, userID, personaName string) (string, error)
	Set(ctx context.Context, userID, personaName, sessionID string) error
	Delete(ctx context.Context, userID, personaName string) error
}

// newSessionStore picks Redis when configured, so multiple bot instances
// (or a restart) keep their conversation pointers. Falls back to the
// in-process map otherwise.
func newSessionStore(ctx context.Context, cfg Config) (SessionStore, error) {
	if cfg.RedisURL == "" {
		return newMemorySessionStore(cfg.SessionTTL), nil
	}
	return newRedisSessionStore(ctx, cfg.RedisURL, cfg.SessionTTL)
}

func sessionKey(userID, personaName string) string {
	return sessionKeyPrefix + userID + ":" + personaName
}

type sessionEntry struct {
	SessionID string `json:"session_id"`
	ExpiresAt int64  `json:"expires_at"`
}

type memorySessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]sessionEntry

	now func() time.Time
}

func newMemorySessionStore(ttl time.Duration) *memorySessionStore {
	return &memorySessionStore{
		ttl:     ttl,
		entries: make(map[string]sessionEntry),
		now:     time.Now,
	}
}

func (m *memorySessionStore) Get(ctx context.Context, userID, personaName string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionKey(userID, personaName)
	entry, ok := m.entries[key]
	if !ok {
		return "", nil
	}
	if m.now().Unix() > entry.ExpiresAt {
		delete(m.entries, key)
		return "", nil
	}
	return entry.SessionID, nil
}

func (m *memorySessionStore) Set(ctx context.Context, userID, personaName, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[sessionKey(userID, personaName)] = sessionEntry{
		SessionID: sessionID,
		ExpiresAt: m.now().Add(m.ttl).Unix(),
	}
	return nil
}

func (m *memorySessionStore) Delete(ctx context.Context, userID, personaName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionKey(userID, personaName))
	return nil
}

type redisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func newRedisSessionStore(ctx context.Context, redisURL string, ttl time.Duration) (*redisSessionStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisSessionStore{client: client, ttl: ttl}, nil
}

func (r *redisSessionStore) Get(ctx context.Context, userID, personaName string) (string, error) {
	raw, err := r.client.Get(ctx, sessionKey(userID, personaName)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get session data: %w", err)
	}

	var entry sessionEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return "", fmt.Errorf("failed to unmarshal session data: %w", err)
	}
	return entry.SessionID, nil
}

func (r *redisSessionStore) Set(ctx context.Context, userID, personaName, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	raw, err := json.Marshal(sessionEntry{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(userID, personaName), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session data: %w", err)
	}
	return nil
}

func (r *redisSessionStore) Delete(ctx context.Context, userID, personaName string) error {
	if err := r.client.Del(ctx, sessionKey(userID, personaName)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
