package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"tableside/internal/models"
	"tableside/internal/redis"
	"tableside/internal/session"
	"tableside/pkg/menubot"
)

// SessionStore persists session metadata with a TTL so staff tooling can
// see which tables have live sessions. Losing it never loses ordering
// state; it is metadata only.
type SessionStore interface {
	SetSession(sessionID string, data *redis.SessionData, ttl time.Duration) error
	DeleteSession(sessionID string) error
}

type SessionService interface {
	Start(ctx context.Context, key models.TableKey, token string) (*session.Session, *menubot.UserStatus, error)
	Get(id string) (*session.Session, error)
	CheckStatus(ctx context.Context, sess *session.Session, token string) (*menubot.UserStatus, error)
	VerifyPin(ctx context.Context, sess *session.Session, token, pin string) (*menubot.UserStatus, error)
	End(id string) bool
}

type sessionService struct {
	client   *menubot.Client
	sessions *session.Manager
	store    SessionStore
	ttl      time.Duration
}

func NewSessionService(client *menubot.Client, sessions *session.Manager, store SessionStore, ttl time.Duration) SessionService {
	return &sessionService{
		client:   client,
		sessions: sessions,
		store:    store,
		ttl:      ttl,
	}
}

func (s *sessionService) Start(ctx context.Context, key models.TableKey, token string) (*session.Session, *menubot.UserStatus, error) {
	if !key.Valid() {
		return nil, nil, fmt.Errorf("incomplete table key")
	}

	sess := s.sessions.Create(key)
	status, err := s.CheckStatus(ctx, sess, token)
	return sess, status, err
}

func (s *sessionService) Get(id string) (*session.Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// CheckStatus queries the backend for the table's current status. The last
// known status is kept on failure, responses for superseded generations
// are discarded, and an unauthorized result without an identity turns into
// a redirect to the sign-in entry point.
func (s *sessionService) CheckStatus(ctx context.Context, sess *session.Session, token string) (*menubot.UserStatus, error) {
	// Invalid is terminal; no further transitions are attempted.
	if sess.Invalid() {
		return sess.Status(), nil
	}

	gen := sess.SetToken(token)
	key := sess.Key

	status, err := s.client.UserStatus(ctx, token, key.Franchise, key.Branch, key.Table)
	if err != nil {
		return nil, err
	}

	if !sess.CommitStatus(gen, status) {
		return nil, ErrSuperseded
	}

	s.persist(sess, status)

	if status.Status == menubot.StatusUnauthorized && token == "" {
		return status, &RedirectError{URL: SignInURL(key)}
	}

	return status, nil
}

// VerifyPin submits the table PIN and, on acceptance, re-runs the status
// check so the transition to verified always reflects fresh backend state.
// A rejection leaves the session awaiting and carries the backend's reason.
func (s *sessionService) VerifyPin(ctx context.Context, sess *session.Session, token, pin string) (*menubot.UserStatus, error) {
	if !validPin(pin) {
		return nil, ErrInvalidPin
	}

	key := sess.Key
	if err := s.client.VerifyTablePin(ctx, token, key.Franchise, key.Branch, key.Table, pin); err != nil {
		return nil, err
	}

	return s.CheckStatus(ctx, sess, token)
}

func (s *sessionService) End(id string) bool {
	removed := s.sessions.Remove(id)
	if removed && s.store != nil {
		// Best effort; the in-process state is already gone.
		s.store.DeleteSession(id)
	}
	return removed
}

func (s *sessionService) persist(sess *session.Session, status *menubot.UserStatus) {
	if s.store == nil {
		return
	}

	now := time.Now()
	s.store.SetSession(sess.ID, &redis.SessionData{
		SessionID: sess.ID,
		Franchise: sess.Key.Franchise,
		Branch:    sess.Key.Branch,
		Table:     sess.Key.Table,
		Status:    status.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}, s.ttl)
}

// SignInURL is the authentication entry point carrying the table path as
// the post-sign-in return target.
func SignInURL(key models.TableKey) string {
	return "/sign-in?redirect_url=" + url.QueryEscape(key.Path())
}

// The PIN handed out by staff is always six digits.
func validPin(pin string) bool {
	if len(pin) != 6 {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
