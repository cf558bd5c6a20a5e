package services

import (
	"sync"
	"time"

	"tableside/internal/redis"
)

type fakeSessionStore struct {
	mu      sync.Mutex
	saved   map[string]*redis.SessionData
	deleted []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{saved: make(map[string]*redis.SessionData)}
}

func (f *fakeSessionStore) SetSession(sessionID string, data *redis.SessionData, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[sessionID] = data
	return nil
}

func (f *fakeSessionStore) DeleteSession(sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, sessionID)
	f.deleted = append(f.deleted, sessionID)
	return nil
}

type fakeConversationStore struct {
	mu      sync.Mutex
	chatIDs map[string]string
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{chatIDs: make(map[string]string)}
}

func (f *fakeConversationStore) GetChatID(sessionID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatIDs[sessionID], nil
}

func (f *fakeConversationStore) SetChatID(sessionID, chatID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatIDs[sessionID] = chatID
	return nil
}
