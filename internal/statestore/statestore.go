// Package statestore keeps conversation state between handler runs.
package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ziadkadry99/shopassist/internal/chat"
	"github.com/ziadkadry99/shopassist/internal/session"
)

// Memory is a process-local state store.
type Memory struct {
	mu     sync.RWMutex
	states map[session.ID]chat.State
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{states: make(map[session.ID]chat.State)}
}

// Load returns nil when nothing is stored for sid.
func (m *Memory) Load(_ context.Context, sid session.ID) (*chat.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[sid]
	if !ok {
		return nil, nil
	}
	if s.SupportContext != nil {
		sc := *s.SupportContext
		s.SupportContext = &sc
	}
	return &s, nil
}

func (m *Memory) Save(_ context.Context, sid session.ID, s chat.State) error {
	if s.SupportContext != nil {
		sc := *s.SupportContext
		s.SupportContext = &sc
	}
	m.mu.Lock()
	m.states[sid] = s
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, sid session.ID) error {
	m.mu.Lock()
	delete(m.states, sid)
	m.mu.Unlock()
	return nil
}

// Redis stores state as JSON under prefix+"state:"+sessionID. Every save
// refreshes the TTL so idle sessions expire.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis wraps an existing client. A zero ttl keeps keys forever.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(sid session.ID) string {
	return r.prefix + "state:" + string(sid)
}

func (r *Redis) Load(ctx context.Context, sid session.ID) (*chat.State, error) {
	val, err := r.client.Get(ctx, r.key(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading state: %w", err)
	}
	var s chat.State
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	return &s, nil
}

func (r *Redis) Save(ctx context.Context, sid session.ID, s chat.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := r.client.Set(ctx, r.key(sid), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, sid session.ID) error {
	if err := r.client.Del(ctx, r.key(sid)).Err(); err != nil {
		return fmt.Errorf("deleting state: %w", err)
	}
	return nil
}

// Dial connects to the Redis server at url and checks it answers.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}
