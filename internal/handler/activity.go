package handler

import (
	"strconv"
	"time"

	"license-gateway/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HandleGetActivityLogs returns one page of the audit trail, newest first.
func HandleGetActivityLogs(c *fiber.Ctx) error {
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

	logs, total, err := service.GetActivityLogs(page, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load activity logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"total": total,
		"page":  page,
		"size":  pageSize,
	})
}

// HandleActivityStatistics aggregates audit activity over a date range,
// defaulting to the last 30 days.
func HandleActivityStatistics(c *fiber.Ctx) error {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	var start, end time.Time
	var err error

	if startDate != "" {
		start, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "start_date must be YYYY-MM-DD",
			})
		}
	} else {
		start = time.Now().AddDate(0, 0, -30)
	}

	if endDate != "" {
		end, err = time.Parse("2006-01-02", endDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "end_date must be YYYY-MM-DD",
			})
		}
		// Include the whole end day.
		end = end.AddDate(0, 0, 1)
	} else {
		end = time.Now()
	}

	stats, err := service.GetActivityStatistics(start, end)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compute statistics",
		})
	}

	return c.JSON(fiber.Map{
		"statistics": stats,
	})
}

// HandleExportActivityLogs backfills the configured Google Sheet with the
// full audit trail.
func HandleExportActivityLogs(c *fiber.Ctx) error {
	if sheetSync == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "sheet export is not configured",
		})
	}

	logs, total, err := service.GetActivityLogs(1, 10000)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load activity logs",
		})
	}

	if err := sheetSync.ExportLogs(logs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to export activity logs",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "activity logs exported",
		"exported": len(logs),
		"total":    total,
	})
}
