package ai

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput indicates the input failed pre-call validation.
// No network attempt was made and the call is never retried.
type ErrInvalidInput struct {
	Reason string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid AI input: %s", e.Reason)
}

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates the provider is down, unreachable, or
// answered with a 5xx-class response.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("AI provider unavailable: %v", e.Err)
	}
	return "AI provider unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrAuth indicates the provider rejected the credentials. Not
// retryable; it will not heal between attempts.
type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string {
	return fmt.Sprintf("AI provider rejected credentials: %v", e.Err)
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrBadRequest indicates the provider rejected the request as
// malformed. Not retryable.
type ErrBadRequest struct {
	Err error
}

func (e *ErrBadRequest) Error() string {
	return fmt.Sprintf("AI provider rejected request: %v", e.Err)
}

func (e *ErrBadRequest) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider returned content that
// could not be interpreted as the expected structure.
type ErrInvalidResponse struct {
	Content string
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid AI response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ServiceError is what the retry decorator surfaces once the budget is
// exhausted (or immediately, for non-transient failures). The last
// underlying cause stays attached.
type ServiceError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s failed after %d attempt(s): %v", e.Provider, e.Attempts, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// IsInvalidInput reports whether err is a pre-call validation failure.
func IsInvalidInput(err error) bool {
	var ii *ErrInvalidInput
	return errors.As(err, &ii)
}
