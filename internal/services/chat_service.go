package services

import (
	"context"
	"strings"
	"time"

	"tableside/internal/session"
	"tableside/pkg/menubot"
)

// ConversationStore keeps the assistant's chat_id per session so a
// conversation survives across requests.
type ConversationStore interface {
	GetChatID(sessionID string) (string, error)
	SetChatID(sessionID, chatID string, ttl time.Duration) error
}

type ChatService interface {
	Ask(ctx context.Context, sess *session.Session, token, query string) (*menubot.ChatResponse, error)
}

type chatService struct {
	client *menubot.Client
	store  ConversationStore
	ttl    time.Duration
}

func NewChatService(client *menubot.Client, store ConversationStore, ttl time.Duration) ChatService {
	return &chatService{client: client, store: store, ttl: ttl}
}

// Ask forwards a query to the menu assistant, continuing the session's
// conversation when one exists. The assistant backend is opaque; only the
// chat_id handshake is handled here.
func (s *chatService) Ask(ctx context.Context, sess *session.Session, token, query string) (*menubot.ChatResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	chatID := ""
	if s.store != nil {
		// A store miss just starts a new conversation.
		chatID, _ = s.store.GetChatID(sess.ID)
	}

	key := sess.Key
	resp, err := s.client.Chat(ctx, token, key.Franchise, key.Branch, key.Table, query, chatID)
	if err != nil {
		return nil, err
	}

	if resp.ChatID != "" && s.store != nil {
		s.store.SetChatID(sess.ID, resp.ChatID, s.ttl)
	}

	return resp, nil
}
