package handler

import (
	"license-gateway/internal/config"
	"license-gateway/internal/service"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	cfg       *config.Config
	authGate  *service.AuthGate
	broker    *service.Broker
	sheetSync *service.AuditSheetSync
)

// Init wires the handler package to its services; call once at startup.
func Init(c *config.Config, gate *service.AuthGate, b *service.Broker, sync *service.AuditSheetSync) {
	cfg = c
	authGate = gate
	broker = b
	sheetSync = sync
}
