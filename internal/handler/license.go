package handler

import (
	"errors"

	"license-gateway/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ValidateKeyInput struct {
	LicenseKey    string `json:"licenseKey" validate:"required,max=128"`
	SellerKeyHint string `json:"sellerKeyHint" validate:"omitempty,max=64"`
}

type ResetHwidInput struct {
	LicenseKey string `json:"licenseKey" validate:"required,max=128"`
}

// HandleValidateKey resolves a bare license key to its product. Logical
// failures (unknown key, empty registry) are 200 with success=false; only
// transport-level exhaustion surfaces as an upstream error.
func HandleValidateKey(c *fiber.Ctx) error {
	input := new(ValidateKeyInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "licenseKey is required",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "licenseKey is required",
		})
	}

	match, err := broker.Validate(c.Context(), input.LicenseKey, input.SellerKeyHint, c.IP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTenantRegistryEmpty):
			return c.JSON(fiber.Map{
				"success": false,
				"message": "no products registered",
			})
		case errors.Is(err, service.ErrNoMatch):
			return c.JSON(fiber.Map{
				"success": false,
				"message": "invalid or unknown license key",
			})
		case errors.Is(err, service.ErrUpstreamUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"message": "verification service unavailable",
			})
		default:
			return fiber.ErrInternalServerError
		}
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      match.Message,
		"product_name": match.Product.Name,
		"download_url": match.Product.DownloadURL,
	})
}

// HandleResetHwid clears the hardware binding of whichever product the
// license key belongs to.
func HandleResetHwid(c *fiber.Ctx) error {
	input := new(ResetHwidInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "licenseKey is required",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "licenseKey is required",
		})
	}

	result, err := broker.ResetBinding(c.Context(), input.LicenseKey, c.IP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTenantRegistryEmpty):
			return c.JSON(fiber.Map{
				"success": false,
				"message": "no products registered",
			})
		case errors.Is(err, service.ErrNoMatch):
			return c.JSON(fiber.Map{
				"success": false,
				"message": "license key not found or never used",
			})
		case errors.Is(err, service.ErrUpstreamUnavailable):
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"message": "verification service unavailable",
			})
		default:
			return fiber.ErrInternalServerError
		}
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      result.Message,
		"product_name": result.Product.Name,
	})
}
