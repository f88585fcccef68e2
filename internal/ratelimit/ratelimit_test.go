package ratelimit

import (
	"testing"
	"time"

	"license-gateway/internal/database"
	"license-gateway/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertAttempt(t *testing.T, ip, email string, success bool, at time.Time) {
	t.Helper()
	err := database.DB.Create(&model.LoginAttempt{
		IPAddress:   ip,
		Email:       email,
		Success:     success,
		AttemptedAt: at,
	}).Error
	require.NoError(t, err)
}

func TestCheckUnderThresholdAllows(t *testing.T) {
	database.InitTestDB()
	defer database.CleanTestDB()

	limiter := NewLimiter(5, 15*time.Minute, 30*time.Minute)

	for i := 0; i < 4; i++ {
		insertAttempt(t, "1.2.3.4", "user@example.com", false, time.Now())
	}

	decision, err := limiter.Check("1.2.3.4", KindIP)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 4, decision.Failures)
	assert.Equal(t, 1, decision.Remaining)
}

func TestCheckAtThresholdDenies(t *testing.T) {
	database.InitTestDB()
	defer database.CleanTestDB()

	limiter := NewLimiter(5, 15*time.Minute, 30*time.Minute)

	for i := 0; i < 5; i++ {
		insertAttempt(t, "1.2.3.4", "user@example.com", false, time.Now())
	}

	decision, err := limiter.Check("1.2.3.4", KindIP)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, 0, decision.Remaining)
	assert.Equal(t, 30*time.Minute, decision.LockedFor)
}

func TestCheckIgnoresAttemptsOutsideWindow(t *testing.T) {
	database.InitTestDB()
	defer database.CleanTestDB()

	limiter := NewLimiter(5, 15*time.Minute, 30*time.Minute)

	// Five old failures, aged past the window.
	for i := 0; i < 5; i++ {
		insertAttempt(t, "1.2.3.4", "user@example.com", false, time.Now().Add(-16*time.Minute))
	}

	decision, err := limiter.Check("1.2.3.4", KindIP)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, decision.Failures)
}

func TestCheckIgnoresSuccessfulAttempts(t *testing.T) {
	database.InitTestDB()
	defer database.CleanTestDB()

	limiter := NewLimiter(5, 15*time.Minute, 30*time.Minute)

	for i := 0; i < 10; i++ {
		insertAttempt(t, "1.2.3.4", "user@example.com", true, time.Now())
	}

	decision, err := limiter.Check("1.2.3.4", KindIP)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 0, decision.Failures)
}

func TestCheckCountersAreIndependent(t *testing.T) {
	database.InitTestDB()
	defer database.CleanTestDB()

	limiter := NewLimiter(5, 15*time.Minute, 30*time.Minute)

	// Five failures from one IP with distinct emails: the IP counter trips,
	// each email counter stays clean.
	emails := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"}
	for _, email := range emails {
		insertAttempt(t, "1.2.3.4", email, false, time.Now())
	}

	ipDecision, err := limiter.Check("1.2.3.4", KindIP)
	require.NoError(t, err)
	assert.False(t, ipDecision.Allowed)

	emailDecision, err := limiter.Check("a@x.com", KindEmail)
	require.NoError(t, err)
	assert.True(t, emailDecision.Allowed)
	assert.Equal(t, 1, emailDecision.Failures)
}

func TestCheckLowercasesEmailIdentifier(t *testing.T) {
	database.InitTestDB()
	defer database.CleanTestDB()

	limiter := NewLimiter(5, 15*time.Minute, 30*time.Minute)

	require.NoError(t, Record("1.2.3.4", "User@Example.COM", false))

	decision, err := limiter.Check("USER@example.com", KindEmail)
	require.NoError(t, err)
	assert.Equal(t, 1, decision.Failures)
}

func TestCleanupRemovesOnlyAgedRows(t *testing.T) {
	database.InitTestDB()
	defer database.CleanTestDB()

	insertAttempt(t, "1.2.3.4", "user@example.com", false, time.Now().Add(-20*time.Minute))
	insertAttempt(t, "1.2.3.4", "user@example.com", false, time.Now())

	require.NoError(t, Cleanup(15*time.Minute))

	var count int64
	require.NoError(t, database.DB.Model(&model.LoginAttempt{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// Check is read-only by contract; callers insert the attempt after the
// decision. Two concurrent requests can both pass at 4 failures and push
// the count to 6 — the overshoot is bounded and tolerated.
func TestCheckDoesNotWrite(t *testing.T) {
	database.InitTestDB()
	defer database.CleanTestDB()

	limiter := NewLimiter(5, 15*time.Minute, 30*time.Minute)

	_, err := limiter.Check("1.2.3.4", KindIP)
	require.NoError(t, err)

	var count int64
	require.NoError(t, database.DB.Model(&model.LoginAttempt{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
