package service

import (
	"errors"
	"fmt"
	"time"
)

// Failure taxonomy surfaced to handlers. Handlers map these to stable HTTP
// statuses; internal detail never reaches a response body.
var (
	ErrInputInvalid        = errors.New("invalid input")
	ErrNotAuthorized       = errors.New("admin role required")
	ErrNoMatch             = errors.New("license key did not match any product")
	ErrTenantRegistryEmpty = errors.New("no products registered")
	ErrUpstreamUnavailable = errors.New("verification service unavailable")
)

// RateLimitError denies a login before credentials are checked. LockedFor
// is a displayed hint only.
type RateLimitError struct {
	LockedFor time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many attempts, locked for %s", e.LockedFor)
}

// CredentialsError reports a failed sign-in along with how many attempts
// remain before the window locks.
type CredentialsError struct {
	Remaining int
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("invalid credentials, %d attempt(s) remaining", e.Remaining)
}
