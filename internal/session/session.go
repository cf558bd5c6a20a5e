package session

import (
	"sync"

	"github.com/google/uuid"

	"tableside/internal/cart"
	"tableside/internal/menu"
	"tableside/internal/models"
	"tableside/pkg/menubot"
)

// Session is the state for one active table. It owns the cart and the menu
// index for that table and carries the generation counter used to discard
// responses that belong to a superseded identity or a torn-down session.
type Session struct {
	ID  string
	Key models.TableKey

	Cart *cart.Cart
	Menu *menu.Index

	mu     sync.Mutex
	token  string
	gen    uint64
	status *menubot.UserStatus
}

func New(key models.TableKey) *Session {
	return &Session{
		ID:   uuid.NewString(),
		Key:  key,
		Cart: cart.New(),
		Menu: menu.NewIndex(),
	}
}

// Generation returns the current generation. Callers capture it before a
// backend call and pass it back on completion; a mismatch means the
// response belongs to superseded state and must be discarded.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SetToken records the caller's identity. Any identity change (sign-in,
// sign-out, token rotation) bumps the generation so in-flight responses for
// the old identity are discarded, and returns the generation to use for the
// next backend call.
func (s *Session) SetToken(token string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		s.token = token
		s.gen++
	}
	return s.gen
}

// Invalidate bumps the generation, abandoning the effect of every request
// still in flight. Used on session teardown.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
}

// Status returns the last known table status, if any.
func (s *Session) Status() *menubot.UserStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// CommitStatus installs a fresh status under the last-write-wins-per-key
// discipline: the status is kept only if the session generation has not
// moved since the request was issued.
func (s *Session) CommitStatus(gen uint64, status *menubot.UserStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return false
	}
	s.status = status
	return true
}

// Invalid reports whether the session hit the terminal invalid state.
func (s *Session) Invalid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status != nil && s.status.Status == menubot.StatusInvalid
}
