package auth

import (
	"context"
	"fmt"
	"time"

	"tableside/internal/config"
)

// User is the identity reported by the configured provider.
type User struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
}

// Credentials is the result of a completed OTP verification: the bearer
// token the UI presents on every later call, plus the signed-in user.
type Credentials struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Service is the capability interface over identity providers. The concrete
// provider is a configuration-time decision, resolved once per process.
type Service interface {
	SignIn(ctx context.Context, phoneNumber string) error
	VerifyOTP(ctx context.Context, phoneNumber, code string) (*Credentials, error)
	SignOut(ctx context.Context, token string) error
	GetUser(ctx context.Context, token string) (*User, error)
}

// New selects the provider named by AUTH_PROVIDER.
func New(cfg *config.Config) (Service, error) {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second

	switch cfg.AuthProvider {
	case "clerk":
		return NewClerk(cfg.ClerkAPIURL, cfg.ClerkSecretKey, timeout), nil
	case "supabase":
		return NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey, timeout), nil
	default:
		return nil, fmt.Errorf("unknown auth provider: %s", cfg.AuthProvider)
	}
}
