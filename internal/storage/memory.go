package storage

import (
	"context"
	"sync"
	"time"

	"github.com/q-ots/siteauth/internal/models"
)

// MemoryStore is a non-persistent SessionStore for single-instance
// deployments and tests.
type MemoryStore struct {
	sessions map[string]*models.Session
	mu       sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		sessions: make(map[string]*models.Session),
	}

	// Start background cleanup routine
	go store.cleanupRoutine()

	return store
}

func (m *MemoryStore) SaveSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.Token] = session
	return nil
}

func (m *MemoryStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[token]
	if !exists {
		return nil, nil
	}

	if time.Now().After(session.ExpiresAt) {
		delete(m.sessions, token)
		return nil, nil
	}

	return session, nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)
	return nil
}

// cleanupRoutine runs every 5 minutes to clean up expired sessions
func (m *MemoryStore) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

func (m *MemoryStore) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for token, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
}
