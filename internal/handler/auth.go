package handler

import (
	"errors"
	"fmt"
	"strconv"

	"license-gateway/internal/database"
	"license-gateway/internal/model"
	"license-gateway/internal/service"
	"license-gateway/internal/util"

	"github.com/gofiber/fiber/v2"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

// HandleAdminLogin authenticates a console admin. Malformed input is
// rejected here and never reaches the rate limiter, so no attempt row is
// written for shape failures.
func HandleAdminLogin(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "email and password are required",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid email or password format",
		})
	}

	token, err := authGate.AdminLogin(c.IP(), input.Email, input.Password)
	if err != nil {
		var rateErr *service.RateLimitError
		var credErr *service.CredentialsError

		switch {
		case errors.As(err, &rateErr):
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"message": fmt.Sprintf("Too many attempts. Try again in %d minutes.", int(rateErr.LockedFor.Minutes())),
				"locked":  true,
			})
		case errors.As(err, &credErr):
			message := fmt.Sprintf("Invalid credentials. %d attempt(s) remaining.", credErr.Remaining)
			if credErr.Remaining <= 0 {
				message = fmt.Sprintf("Too many attempts. Try again in %d minutes.", int(cfg.LockoutHint.Minutes()))
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": message,
				"locked":  credErr.Remaining <= 0,
			})
		case errors.Is(err, service.ErrNotAuthorized):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "admin access required",
			})
		default:
			return fiber.ErrInternalServerError
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"session": token,
	})
}

// HandleValidateToken lets the console check whether a stored session is
// still usable before rendering the admin panel.
func HandleValidateToken(c *fiber.Ctx) error {
	type TokenInput struct {
		Token string `json:"token"`
	}

	input := new(TokenInput)
	if err := c.BodyParser(input); err != nil || input.Token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"valid": false,
			"error": "token is required",
		})
	}

	userID, err := util.ValidateToken(input.Token)
	if err != nil {
		return c.JSON(fiber.Map{
			"valid": false,
			"error": "invalid token",
		})
	}

	var user model.User
	result := database.DB.First(&user, userID)
	if result.Error != nil {
		return c.JSON(fiber.Map{
			"valid": false,
			"error": "user not found",
		})
	}

	return c.JSON(fiber.Map{
		"valid": true,
		"user": fiber.Map{
			"id":    user.ID,
			"email": user.Email,
		},
	})
}

// HandleGetLoginAttempts is the admin audit view over the attempt window.
func HandleGetLoginAttempts(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "10"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var attempts []model.LoginAttempt
	var total int64

	db := database.DB.Model(&model.LoginAttempt{})

	if err := db.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to count login attempts",
		})
	}

	offset := (page - 1) * pageSize
	if err := db.Order("attempted_at DESC").Offset(offset).Limit(pageSize).Find(&attempts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load login attempts",
		})
	}

	return c.JSON(fiber.Map{
		"attempts": attempts,
		"total":    total,
		"page":     page,
		"size":     pageSize,
	})
}
