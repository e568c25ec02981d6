package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lungscreen/internal/model"
)

// Live interviews expire after an hour of silence
const sessionTTL = 60 * time.Minute

// SessionStore holds live interview state. Implementations are injected
// into the orchestrator; nothing in the service layer touches storage
// directly.
type SessionStore interface {
	Put(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

type redisSessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a Redis-backed session store
func NewSessionStore(client *redis.Client) SessionStore {
	return &redisSessionStore{client: client}
}

func (s *redisSessionStore) key(id string) string {
	return "screening:session:" + id
}

func (s *redisSessionStore) Put(ctx context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.ID), data, sessionTTL).Err()
}

// Get returns (nil, nil) for unknown or expired sessions
func (s *redisSessionStore) Get(ctx context.Context, id string) (*model.Session, error) {
	data, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// NewMemorySessionStore creates an in-process store for tests and for
// running without Redis
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]*model.Session)}
}

func (s *memorySessionStore) Put(_ context.Context, session *model.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	var copied model.Session
	if err := json.Unmarshal(data, &copied); err != nil {
		return err
	}
	s.mu.Lock()
	s.sessions[session.ID] = &copied
	s.mu.Unlock()
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	stored, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	var copied model.Session
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}

func (s *memorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
