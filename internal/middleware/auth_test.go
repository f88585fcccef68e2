package middleware

import (
	"net/http"
	"testing"

	"license-gateway/internal/database"
	"license-gateway/internal/model"
	"license-gateway/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	database.InitTestDB()

	app := fiber.New()
	app.Get("/protected", Auth(), AdminOnly(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
	return app
}

func TestAuthRejectsMissingToken(t *testing.T) {
	app := setupApp(t)
	defer database.CleanTestDB()

	req, _ := http.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	app := setupApp(t)
	defer database.CleanTestDB()

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnlyRejectsNonAdmin(t *testing.T) {
	app := setupApp(t)
	defer database.CleanTestDB()

	user := &model.User{Email: "user@example.com", Password: "x"}
	require.NoError(t, database.DB.Create(user).Error)

	token, err := util.GenerateToken(user.ID)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminOnlyAllowsAdmin(t *testing.T) {
	app := setupApp(t)
	defer database.CleanTestDB()

	user := &model.User{Email: "admin@example.com", Password: "x"}
	require.NoError(t, database.DB.Create(user).Error)
	require.NoError(t, database.DB.Create(&model.UserRole{UserID: user.ID, Role: model.RoleAdmin}).Error)

	token, err := util.GenerateToken(user.ID)
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
