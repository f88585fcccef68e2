package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"license-gateway/internal/config"
	"license-gateway/internal/database"
	"license-gateway/internal/model"
	"license-gateway/internal/ratelimit"
	"license-gateway/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxLoginAttempts: 5,
		AttemptWindow:    15 * time.Minute,
		LockoutHint:      30 * time.Minute,
		LogPolicy:        config.LogOnSuccess,
	}
}

func setupLoginApp(t *testing.T) *fiber.App {
	t.Helper()
	database.InitTestDB()

	cfg := testConfig()
	gate := service.NewAuthGate(ratelimit.NewLimiter(cfg.MaxLoginAttempts, cfg.AttemptWindow, cfg.LockoutHint))
	Init(cfg, gate, nil, nil)

	app := fiber.New()
	app.Post("/admin-login", HandleAdminLogin)
	return app
}

func createAdmin(t *testing.T, email, password string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &model.User{Email: email, Password: string(hashed)}
	require.NoError(t, database.DB.Create(user).Error)
	require.NoError(t, database.DB.Create(&model.UserRole{UserID: user.ID, Role: model.RoleAdmin}).Error)
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewBuffer(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func putJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("PUT", path, bytes.NewBuffer(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHandleAdminLoginInputShape(t *testing.T) {
	app := setupLoginApp(t)
	defer database.CleanTestDB()

	tests := []struct {
		name  string
		input map[string]string
	}{
		{name: "missing_fields", input: map[string]string{}},
		{name: "bad_email", input: map[string]string{"email": "not-an-email", "password": "x"}},
		{name: "long_password", input: map[string]string{"email": "a@b.com", "password": string(bytes.Repeat([]byte("p"), 129))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/admin-login", tt.input)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}

	// Shape failures never reach the limiter, so no attempt rows exist.
	var count int64
	require.NoError(t, database.DB.Model(&model.LoginAttempt{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestHandleAdminLoginInvalidCredentials(t *testing.T) {
	app := setupLoginApp(t)
	defer database.CleanTestDB()
	createAdmin(t, "admin@example.com", "secret")

	resp := postJSON(t, app, "/admin-login", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "4 attempt(s) remaining")
}

func TestHandleAdminLoginRateLimited(t *testing.T) {
	app := setupLoginApp(t)
	defer database.CleanTestDB()
	createAdmin(t, "admin@example.com", "secret")

	for i := 0; i < 5; i++ {
		resp := postJSON(t, app, "/admin-login", map[string]string{
			"email":    "admin@example.com",
			"password": "wrong",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}

	resp := postJSON(t, app, "/admin-login", map[string]string{
		"email":    "admin@example.com",
		"password": "secret",
	})
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["locked"])
	assert.Contains(t, body["message"], "30 minutes")
}

func TestHandleAdminLoginNonAdmin(t *testing.T) {
	app := setupLoginApp(t)
	defer database.CleanTestDB()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, database.DB.Create(&model.User{Email: "user@example.com", Password: string(hashed)}).Error)

	resp := postJSON(t, app, "/admin-login", map[string]string{
		"email":    "user@example.com",
		"password": "secret",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The rejected attempt is on record.
	var count int64
	require.NoError(t, database.DB.Model(&model.LoginAttempt{}).Where("success = ?", false).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHandleAdminLoginSuccess(t *testing.T) {
	app := setupLoginApp(t)
	defer database.CleanTestDB()
	createAdmin(t, "admin@example.com", "secret")

	resp := postJSON(t, app, "/admin-login", map[string]string{
		"email":    "admin@example.com",
		"password": "secret",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["session"])
}
