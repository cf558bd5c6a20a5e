package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Clerk is the Clerk phone/OTP provider. Clerk's flow is two-step: a sign-in
// attempt is created first, then the code is verified against that attempt,
// so the attempt id is remembered per phone number between the two calls.
type Clerk struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client

	mu       sync.Mutex
	attempts map[string]string
}

func NewClerk(baseURL, secretKey string, timeout time.Duration) *Clerk {
	return &Clerk{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		attempts: make(map[string]string),
	}
}

// SignIn creates a sign-in attempt and asks Clerk to text the OTP.
func (c *Clerk) SignIn(ctx context.Context, phoneNumber string) error {
	body := map[string]string{
		"identifier": phoneNumber,
		"strategy":   "phone_code",
	}

	respBody, err := c.request(ctx, http.MethodPost, "/v1/sign_ins", "", body)
	if err != nil {
		return err
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return fmt.Errorf("failed to parse sign-in response: %w", err)
	}

	c.mu.Lock()
	c.attempts[phoneNumber] = payload.ID
	c.mu.Unlock()

	return nil
}

// VerifyOTP completes the pending sign-in attempt for the phone number.
func (c *Clerk) VerifyOTP(ctx context.Context, phoneNumber, code string) (*Credentials, error) {
	c.mu.Lock()
	attemptID, ok := c.attempts[phoneNumber]
	c.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no pending sign-in for %s", phoneNumber)
	}

	body := map[string]string{
		"strategy": "phone_code",
		"code":     code,
	}

	respBody, err := c.request(ctx, http.MethodPost, "/v1/sign_ins/"+attemptID+"/attempt", "", body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		SessionToken string `json:"session_token"`
		User         struct {
			ID          string `json:"id"`
			PhoneNumber string `json:"phone_number"`
			Email       string `json:"email_address"`
			Name        string `json:"first_name"`
		} `json:"user"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse attempt response: %w", err)
	}

	c.mu.Lock()
	delete(c.attempts, phoneNumber)
	c.mu.Unlock()

	return &Credentials{
		Token: payload.SessionToken,
		User: &User{
			ID:          payload.User.ID,
			PhoneNumber: payload.User.PhoneNumber,
			Email:       payload.User.Email,
			Name:        payload.User.Name,
		},
	}, nil
}

func (c *Clerk) SignOut(ctx context.Context, token string) error {
	_, err := c.request(ctx, http.MethodPost, "/v1/sign_outs", token, nil)
	return err
}

func (c *Clerk) GetUser(ctx context.Context, token string) (*User, error) {
	respBody, err := c.request(ctx, http.MethodGet, "/v1/me", token, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID          string `json:"id"`
		PhoneNumber string `json:"phone_number"`
		Email       string `json:"email_address"`
		Name        string `json:"first_name"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}

	return &User{
		ID:          payload.ID,
		PhoneNumber: payload.PhoneNumber,
		Email:       payload.Email,
		Name:        payload.Name,
	}, nil
}

func (c *Clerk) request(ctx context.Context, method, path, token string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Clerk-Secret-Key", c.SecretKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("clerk: %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
