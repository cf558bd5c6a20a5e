package session

import (
	"sync"

	"tableside/internal/models"
)

// Manager is the in-process registry of active table sessions. Sessions are
// scoped per table key and never shared across concurrently open tables.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

func (m *Manager) Create(key models.TableKey) *Session {
	sess := New(key)

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	return sess
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.sessions[id]
	return sess, ok
}

// Remove tears a session down: it leaves the registry, in-flight request
// effects are abandoned, and the cart and catalog are discarded.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}

	sess.Invalidate()
	sess.Cart.Clear()
	sess.Menu.Clear()
	return true
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
