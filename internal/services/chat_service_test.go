package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tableside/internal/models"
	"tableside/internal/session"
	"tableside/pkg/menubot"
)

func TestChatConversationContinuity(t *testing.T) {
	var gotChatIDs []string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotChatIDs = append(gotChatIDs, r.URL.Query().Get("chat_id"))
		json.NewEncoder(w).Encode(menubot.ChatResponse{
			Response: "We have three vegan mains.",
			ChatID:   "conv-42",
		})
	}))
	defer backend.Close()

	client := menubot.NewClient(backend.URL, 2*time.Second)
	store := newFakeConversationStore()
	svc := NewChatService(client, store, time.Hour)
	sess := session.New(models.TableKey{Franchise: "f", Branch: "b", Table: "t"})

	// First question starts a conversation.
	resp, err := svc.Ask(context.Background(), sess, "tok", "any vegan options?")
	if err != nil {
		t.Fatalf("Ask() err = %v", err)
	}
	if resp.Response == "" || resp.ChatID != "conv-42" {
		t.Fatalf("Ask() resp = %+v", resp)
	}
	if store.chatIDs[sess.ID] != "conv-42" {
		t.Errorf("chat id not stored for the session")
	}

	// The second question carries the stored chat id.
	if _, err := svc.Ask(context.Background(), sess, "tok", "which is spiciest?"); err != nil {
		t.Fatalf("Ask() err = %v", err)
	}

	if len(gotChatIDs) != 2 || gotChatIDs[0] != "" || gotChatIDs[1] != "conv-42" {
		t.Errorf("chat_id params seen by backend = %v, want [\"\" conv-42]", gotChatIDs)
	}
}

func TestChatEmptyQuery(t *testing.T) {
	client := menubot.NewClient("http://127.0.0.1:0", time.Second)
	svc := NewChatService(client, nil, time.Hour)
	sess := session.New(models.TableKey{Franchise: "f", Branch: "b", Table: "t"})

	if _, err := svc.Ask(context.Background(), sess, "tok", "   "); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("Ask(blank) err = %v, want ErrEmptyQuery", err)
	}
}
