package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Supabase is the Supabase GoTrue phone/OTP provider.
type Supabase struct {
	BaseURL    string
	AnonKey    string
	HTTPClient *http.Client
}

func NewSupabase(baseURL, anonKey string, timeout time.Duration) *Supabase {
	return &Supabase{
		BaseURL: baseURL,
		AnonKey: anonKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SignIn asks the provider to text an OTP to the phone number.
func (s *Supabase) SignIn(ctx context.Context, phoneNumber string) error {
	body := map[string]string{"phone": phoneNumber}
	_, err := s.request(ctx, http.MethodPost, "/auth/v1/otp", "", body)
	return err
}

// VerifyOTP exchanges the texted code for an access token.
func (s *Supabase) VerifyOTP(ctx context.Context, phoneNumber, code string) (*Credentials, error) {
	body := map[string]string{
		"type":  "sms",
		"phone": phoneNumber,
		"token": code,
	}

	respBody, err := s.request(ctx, http.MethodPost, "/auth/v1/verify", "", body)
	if err != nil {
		return nil, err
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID    string `json:"id"`
			Phone string `json:"phone"`
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse verify response: %w", err)
	}

	return &Credentials{
		Token: payload.AccessToken,
		User: &User{
			ID:          payload.User.ID,
			PhoneNumber: payload.User.Phone,
			Email:       payload.User.Email,
		},
	}, nil
}

func (s *Supabase) SignOut(ctx context.Context, token string) error {
	_, err := s.request(ctx, http.MethodPost, "/auth/v1/logout", token, nil)
	return err
}

func (s *Supabase) GetUser(ctx context.Context, token string) (*User, error) {
	respBody, err := s.request(ctx, http.MethodGet, "/auth/v1/user", token, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID    string `json:"id"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse user response: %w", err)
	}

	return &User{ID: payload.ID, PhoneNumber: payload.Phone, Email: payload.Email}, nil
}

func (s *Supabase) request(ctx context.Context, method, path, token string, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.AnonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supabase: %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
