// Package ratelimit implements the sliding-window login limiter over the
// append-only login_attempts table. There are no in-memory counters; every
// decision is computed from the store, so restarts and multiple instances
// need no coordination.
package ratelimit

import (
	"strings"
	"time"

	"license-gateway/internal/database"
	"license-gateway/internal/model"
)

// Kind selects which identifier column a check counts against. The two
// counters are independent and evaluated with OR semantics by callers.
type Kind string

const (
	KindIP    Kind = "ip"
	KindEmail Kind = "email"
)

// Decision is the outcome of a rate check. LockedFor is a displayed hint;
// the actual unlock happens when attempts age out of the window.
type Decision struct {
	Allowed   bool
	Failures  int
	Remaining int
	LockedFor time.Duration
}

type Limiter struct {
	MaxAttempts int
	Window      time.Duration
	LockoutHint time.Duration
}

func NewLimiter(maxAttempts int, window, lockoutHint time.Duration) *Limiter {
	return &Limiter{
		MaxAttempts: maxAttempts,
		Window:      window,
		LockoutHint: lockoutHint,
	}
}

// Check counts failed attempts for identifier inside the trailing window.
// The window boundary is inclusive: an attempt at exactly now-Window still
// counts. Read-only; callers record the attempt once its outcome is known,
// which leaves a small count-then-insert race between concurrent requests.
// The overshoot is bounded by request concurrency and tolerated on this
// admin-only surface.
func (l *Limiter) Check(identifier string, kind Kind) (*Decision, error) {
	column := "ip_address"
	if kind == KindEmail {
		column = "email"
		identifier = strings.ToLower(identifier)
	}

	windowStart := time.Now().Add(-l.Window)

	var count int64
	err := database.DB.Model(&model.LoginAttempt{}).
		Where(column+" = ? AND success = ? AND attempted_at >= ?", identifier, false, windowStart).
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	failures := int(count)
	decision := &Decision{
		Allowed:  failures < l.MaxAttempts,
		Failures: failures,
	}
	if decision.Allowed {
		decision.Remaining = l.MaxAttempts - failures
	} else {
		decision.LockedFor = l.LockoutHint
	}
	return decision, nil
}

// Record appends one attempt attributed to both the IP and the lower-cased
// email. Append-only; rows are never updated.
func Record(ip, email string, success bool) error {
	attempt := &model.LoginAttempt{
		IPAddress:   ip,
		Email:       strings.ToLower(email),
		Success:     success,
		AttemptedAt: time.Now(),
	}
	return database.DB.Create(attempt).Error
}

// Cleanup deletes attempts that aged out of the window. Run before rate
// checks; losing old rows never changes a decision.
func Cleanup(window time.Duration) error {
	cutoff := time.Now().Add(-window)
	return database.DB.Where("attempted_at < ?", cutoff).Delete(&model.LoginAttempt{}).Error
}
