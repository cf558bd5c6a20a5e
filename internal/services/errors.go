package services

import "errors"

var (
	// ErrSuperseded means a backend response arrived for a generation that
	// has since been replaced (identity change or teardown) and was
	// discarded without touching session state.
	ErrSuperseded = errors.New("session superseded")

	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidPin      = errors.New("table pin must be 6 digits")
	ErrEmptyQuery      = errors.New("query is empty")
)

// RedirectError tells the caller to authenticate first, carrying the
// sign-in URL with the current table path as the return target.
type RedirectError struct {
	URL string
}

func (e *RedirectError) Error() string {
	return "authentication required"
}
