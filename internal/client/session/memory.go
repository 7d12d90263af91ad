package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/postit/internal/client/models"
)

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu sync.RWMutex
	s  Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.AccessToken
}

func (m *MemoryStore) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.RefreshToken
}

func (m *MemoryStore) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneUser(m.s.User)
}

func (m *MemoryStore) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Session{AccessToken: m.s.AccessToken, RefreshToken: m.s.RefreshToken, User: cloneUser(m.s.User)}
}

func (m *MemoryStore) IsAuthenticated() bool {
	return m.AccessToken() != ""
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = Session{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken, User: cloneUser(s.User)}
	return nil
}

func (m *MemoryStore) SetAccessToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.AccessToken = token
	return nil
}

func (m *MemoryStore) SetUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s.User = &u
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = Session{}
	return nil
}
