package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tableside/internal/models"
	"tableside/internal/session"
	"tableside/pkg/menubot"
)

var testKey = models.TableKey{Franchise: "spice-route", Branch: "downtown", Table: "t7"}

func newSessionService(backendURL string, store SessionStore) (SessionService, *session.Manager) {
	client := menubot.NewClient(backendURL, 2*time.Second)
	sessions := session.NewManager()
	return NewSessionService(client, sessions, store, time.Hour), sessions
}

func TestStartUnauthorizedWithoutIdentityRedirects(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Errorf("anonymous status check sent Authorization header %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(menubot.UserStatus{Status: menubot.StatusUnauthorized, Message: "sign in first"})
	}))
	defer backend.Close()

	svc, _ := newSessionService(backend.URL, nil)

	sess, status, err := svc.Start(context.Background(), testKey, "")
	if sess == nil {
		t.Fatal("Start() returned no session")
	}
	if status == nil || status.Status != menubot.StatusUnauthorized {
		t.Fatalf("Start() status = %+v, want unauthorized", status)
	}

	var redirect *RedirectError
	if !errors.As(err, &redirect) {
		t.Fatalf("Start() err = %v, want RedirectError", err)
	}
	want := "/sign-in?redirect_url=%2Fspice-route%2Fdowntown%2Ft7"
	if redirect.URL != want {
		t.Errorf("redirect URL = %q, want %q", redirect.URL, want)
	}
}

func TestCheckStatusUnauthorizedWithIdentityIsNotARedirect(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(menubot.UserStatus{Status: menubot.StatusUnauthorized})
	}))
	defer backend.Close()

	svc, _ := newSessionService(backend.URL, nil)

	_, status, err := svc.Start(context.Background(), testKey, "tok-1")
	if err != nil {
		t.Fatalf("Start() err = %v, want nil for an identified caller", err)
	}
	if status.Status != menubot.StatusUnauthorized {
		t.Errorf("status = %q, want unauthorized", status.Status)
	}
}

func TestCheckStatusInvalidIsTerminal(t *testing.T) {
	calls := 0
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			json.NewEncoder(w).Encode(menubot.UserStatus{Status: menubot.StatusInvalid, Message: "Table does not exist"})
			return
		}
		json.NewEncoder(w).Encode(menubot.UserStatus{Status: menubot.StatusVerified})
	}))
	defer backend.Close()

	svc, _ := newSessionService(backend.URL, nil)

	sess, status, err := svc.Start(context.Background(), testKey, "tok-1")
	if err != nil {
		t.Fatalf("Start() err = %v", err)
	}
	if status.Status != menubot.StatusInvalid {
		t.Fatalf("status = %q, want invalid", status.Status)
	}

	// No transition is attempted for a dead table; the backend is not asked
	// again and the message stays visible.
	status, err = svc.CheckStatus(context.Background(), sess, "tok-1")
	if err != nil {
		t.Fatalf("CheckStatus() err = %v", err)
	}
	if status.Status != menubot.StatusInvalid || status.Message != "Table does not exist" {
		t.Errorf("status after re-check = %+v, want the terminal invalid status", status)
	}
	if calls != 1 {
		t.Errorf("backend called %d times, want 1", calls)
	}
}

func TestCheckStatusFailureRetainsLastKnownStatus(t *testing.T) {
	healthy := true
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"message": "backend down"})
			return
		}
		json.NewEncoder(w).Encode(menubot.UserStatus{Status: menubot.StatusAwaiting})
	}))
	defer backend.Close()

	svc, _ := newSessionService(backend.URL, nil)

	sess, _, err := svc.Start(context.Background(), testKey, "tok-1")
	if err != nil {
		t.Fatalf("Start() err = %v", err)
	}

	healthy = false
	_, err = svc.CheckStatus(context.Background(), sess, "tok-1")

	var apiErr *menubot.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("CheckStatus() err = %v, want APIError", err)
	}
	if apiErr.Detail != "backend down" {
		t.Errorf("Detail = %q, want the backend's message verbatim", apiErr.Detail)
	}
	if got := sess.Status(); got == nil || got.Status != menubot.StatusAwaiting {
		t.Errorf("last known status = %+v, want awaiting retained", got)
	}
}

func TestVerifyPin(t *testing.T) {
	verified := false
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/login/"):
			if r.Header.Get("table-pin") != "123456" {
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect table PIN"})
				return
			}
			verified = true
			w.WriteHeader(http.StatusOK)
		case strings.HasPrefix(r.URL.Path, "/user_status/"):
			status := menubot.StatusAwaiting
			if verified {
				status = menubot.StatusVerified
			}
			json.NewEncoder(w).Encode(menubot.UserStatus{Status: status})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer backend.Close()

	svc, _ := newSessionService(backend.URL, nil)
	sess, _, err := svc.Start(context.Background(), testKey, "tok-1")
	if err != nil {
		t.Fatalf("Start() err = %v", err)
	}

	// Malformed PINs never reach the backend.
	if _, err := svc.VerifyPin(context.Background(), sess, "tok-1", "12ab"); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("VerifyPin(malformed) err = %v, want ErrInvalidPin", err)
	}

	// A rejected PIN keeps the session awaiting and surfaces the backend's
	// reason verbatim.
	_, err = svc.VerifyPin(context.Background(), sess, "tok-1", "000000")
	var apiErr *menubot.APIError
	if !errors.As(err, &apiErr) || apiErr.Detail != "Incorrect table PIN" {
		t.Fatalf("VerifyPin(wrong) err = %v, want APIError with backend detail", err)
	}
	if got := sess.Status(); got == nil || got.Status != menubot.StatusAwaiting {
		t.Errorf("status after rejection = %+v, want awaiting", got)
	}

	// The right PIN transitions via a fresh status check.
	status, err := svc.VerifyPin(context.Background(), sess, "tok-1", "123456")
	if err != nil {
		t.Fatalf("VerifyPin(correct) err = %v", err)
	}
	if status.Status != menubot.StatusVerified {
		t.Errorf("status = %q, want verified", status.Status)
	}
}

func TestStartRejectsIncompleteKey(t *testing.T) {
	svc, _ := newSessionService("http://127.0.0.1:0", nil)
	if _, _, err := svc.Start(context.Background(), models.TableKey{Franchise: "f"}, ""); err == nil {
		t.Error("Start() with an incomplete key succeeded")
	}
}

func TestSessionMetadataPersistence(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(menubot.UserStatus{Status: menubot.StatusVerified})
	}))
	defer backend.Close()

	store := newFakeSessionStore()
	svc, _ := newSessionService(backend.URL, store)

	sess, _, err := svc.Start(context.Background(), testKey, "tok-1")
	if err != nil {
		t.Fatalf("Start() err = %v", err)
	}

	saved := store.saved[sess.ID]
	if saved == nil {
		t.Fatal("session metadata was not persisted")
	}
	if saved.Status != menubot.StatusVerified || saved.Table != "t7" {
		t.Errorf("persisted metadata = %+v", saved)
	}

	if !svc.End(sess.ID) {
		t.Fatal("End() = false")
	}
	if len(store.deleted) != 1 || store.deleted[0] != sess.ID {
		t.Errorf("deleted = %v, want [%s]", store.deleted, sess.ID)
	}
	if _, err := svc.Get(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after End() err = %v, want ErrSessionNotFound", err)
	}
}
