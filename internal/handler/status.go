package handler

import (
	"time"

	"license-gateway/internal/database"
	"license-gateway/internal/model"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleAppStatus serves the public status endpoint polled by client apps.
// Optional messages are omitted when empty, matching what the clients
// already parse.
func HandleAppStatus(c *fiber.Ctx) error {
	appID := c.Params("appId")
	if appID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing appId parameter. Use /api_status/{appId}",
		})
	}

	var status model.AppStatus
	result := database.DB.Where("app_id = ?", appID).First(&status)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "App not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal error",
		})
	}

	response := fiber.Map{
		"status":          status.Status,
		"current_version": status.CurrentVersion,
		"min_version":     status.MinVersion,
		"maintenance":     status.Maintenance,
	}
	if status.Message != "" {
		response["message"] = status.Message
	}
	if status.MessageOnline != "" {
		response["message_online"] = status.MessageOnline
	}
	if status.MessageOffline != "" {
		response["message_offline"] = status.MessageOffline
	}
	if status.MessageUpdateRequired != "" {
		response["message_update_required"] = status.MessageUpdateRequired
	}
	if status.MessageMaintenance != "" {
		response["message_maintenance"] = status.MessageMaintenance
	}
	if status.DownloadURL != "" {
		response["download_url"] = status.DownloadURL
	}

	return c.JSON(response)
}

// HandleUpsertAppStatus creates or updates an app's status entry.
func HandleUpsertAppStatus(c *fiber.Ctx) error {
	appID := c.Params("appId")
	if appID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "app id is required",
		})
	}

	input := new(model.AppStatusInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid input data",
		})
	}

	var status model.AppStatus
	result := database.DB.Where("app_id = ?", appID).First(&status)
	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load app status",
			})
		}
		status = model.AppStatus{
			AppID:     appID,
			Status:    "online",
			CreatedAt: time.Now(),
		}
	}

	if input.Status != "" {
		status.Status = input.Status
	}
	if input.CurrentVersion != "" {
		status.CurrentVersion = input.CurrentVersion
	}
	if input.MinVersion != "" {
		status.MinVersion = input.MinVersion
	}
	if input.Maintenance != nil {
		status.Maintenance = *input.Maintenance
	}
	status.Message = input.Message
	status.MessageOnline = input.MessageOnline
	status.MessageOffline = input.MessageOffline
	status.MessageUpdateRequired = input.MessageUpdateRequired
	status.MessageMaintenance = input.MessageMaintenance
	if input.DownloadURL != "" {
		status.DownloadURL = input.DownloadURL
	}
	status.UpdatedAt = time.Now()

	if err := database.DB.Save(&status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save app status",
		})
	}

	return c.JSON(fiber.Map{
		"message":    "app status saved",
		"app_status": status,
	})
}
