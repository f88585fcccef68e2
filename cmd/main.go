package main

import (
	"log"

	"license-gateway/internal/config"
	"license-gateway/internal/database"
	"license-gateway/internal/handler"
	"license-gateway/internal/keyauth"
	"license-gateway/internal/middleware"
	"license-gateway/internal/ratelimit"
	"license-gateway/internal/service"
	"license-gateway/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration:", err)
	}

	database.InitDB(cfg.DataDir)
	util.SetJWTSecret(cfg.JWTSecret)

	sheetSync, err := service.NewAuditSheetSync(cfg.SheetSyncEnabled, cfg.SheetCredential, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		log.Fatal("failed to init sheet sync:", err)
	}

	limiter := ratelimit.NewLimiter(cfg.MaxLoginAttempts, cfg.AttemptWindow, cfg.LockoutHint)
	verifier := keyauth.NewClient(cfg.KeyAuthBaseURL, cfg.VerifyTimeout)
	activity := service.NewActivityLogger(sheetSync)
	gate := service.NewAuthGate(limiter)
	broker := service.NewBroker(verifier, activity, cfg.LogPolicy)

	handler.Init(cfg, gate, broker, sheetSync)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Internal detail stays in the server log.
			log.Printf("request failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal error",
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	// Public gateway surface
	app.Post("/admin-login", handler.HandleAdminLogin)
	app.Post("/validate-key", handler.HandleValidateKey)
	app.Post("/reset-hwid", handler.HandleResetHwid)
	app.Get("/api_status/:appId?", handler.HandleAppStatus)

	// Console API
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/validate-token", handler.HandleValidateToken)

	admin := api.Group("/", middleware.Auth(), middleware.AdminOnly())
	admin.Get("/products", handler.HandleGetProducts)
	admin.Post("/products", handler.HandleCreateProduct)
	admin.Put("/products/:id", handler.HandleUpdateProduct)
	admin.Delete("/products/:id", handler.HandleDeleteProduct)

	admin.Put("/app-status/:appId", handler.HandleUpsertAppStatus)

	admin.Get("/activity-logs", handler.HandleGetActivityLogs)
	admin.Get("/activity-logs/statistics", handler.HandleActivityStatistics)
	admin.Post("/activity-logs/export", handler.HandleExportActivityLogs)

	admin.Get("/login-attempts", handler.HandleGetLoginAttempts)

	log.Fatal(app.Listen(cfg.ListenAddr))
}
