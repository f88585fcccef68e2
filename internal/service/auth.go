package service

import (
	"strings"
	"time"

	"license-gateway/internal/database"
	"license-gateway/internal/model"
	"license-gateway/internal/ratelimit"
	"license-gateway/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthGate orchestrates admin login: rate check per IP and per email,
// credential check, admin role check. Every failure past the rate checks
// records exactly one failed attempt for both identifiers; success records
// one successful attempt.
type AuthGate struct {
	limiter *ratelimit.Limiter
}

func NewAuthGate(limiter *ratelimit.Limiter) *AuthGate {
	return &AuthGate{limiter: limiter}
}

// AdminLogin expects shape-validated input; malformed requests are rejected
// at the handler and never reach the limiter. Returns a session token.
func (g *AuthGate) AdminLogin(ip, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	// Retention cleanup first, as the original console did before every
	// rate decision.
	if err := ratelimit.Cleanup(g.limiter.Window); err != nil {
		return "", err
	}

	ipDecision, err := g.limiter.Check(ip, ratelimit.KindIP)
	if err != nil {
		return "", err
	}
	if !ipDecision.Allowed {
		return "", &RateLimitError{LockedFor: ipDecision.LockedFor}
	}

	emailDecision, err := g.limiter.Check(email, ratelimit.KindEmail)
	if err != nil {
		return "", err
	}
	if !emailDecision.Allowed {
		return "", &RateLimitError{LockedFor: emailDecision.LockedFor}
	}

	var user model.User
	result := database.DB.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			return "", result.Error
		}
		return "", g.failAttempt(ip, email, ipDecision)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", g.failAttempt(ip, email, ipDecision)
	}

	var roleCount int64
	err = database.DB.Model(&model.UserRole{}).
		Where("user_id = ? AND role = ?", user.ID, model.RoleAdmin).
		Count(&roleCount).Error
	if err != nil {
		return "", err
	}
	if roleCount == 0 {
		// Authenticated but not an admin. No session is issued, and the
		// attempt counts against the window.
		if err := ratelimit.Record(ip, email, false); err != nil {
			return "", err
		}
		return "", ErrNotAuthorized
	}

	if err := ratelimit.Record(ip, email, true); err != nil {
		return "", err
	}

	user.LastLogin = time.Now()
	database.DB.Save(&user)

	return util.GenerateToken(user.ID)
}

// failAttempt records the failed attempt and reports how many tries remain
// before the IP window locks, mirroring the remaining-count the original
// console displayed.
func (g *AuthGate) failAttempt(ip, email string, ipDecision *ratelimit.Decision) error {
	if err := ratelimit.Record(ip, email, false); err != nil {
		return err
	}

	remaining := g.limiter.MaxAttempts - (ipDecision.Failures + 1)
	if remaining < 0 {
		remaining = 0
	}
	return &CredentialsError{Remaining: remaining}
}
