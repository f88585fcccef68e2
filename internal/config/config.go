package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Log policies for the license broker audit trail.
const (
	LogOnSuccess = "on_success" // log only the matched tenant's event
	LogAlways    = "always"     // log every verifier call outcome
)

type Config struct {
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
	DataDir    string `envconfig:"DATA_DIR" default:"data"`

	// KeyAuth seller API.
	KeyAuthBaseURL string        `envconfig:"KEYAUTH_BASE_URL" default:"https://keyauth.win/api/seller/"`
	VerifyTimeout  time.Duration `envconfig:"VERIFY_TIMEOUT" default:"5s"`

	// Broker audit policy: on_success or always.
	LogPolicy string `envconfig:"LOG_POLICY" default:"on_success"`

	// Admin login rate limiting.
	MaxLoginAttempts int           `envconfig:"MAX_LOGIN_ATTEMPTS" default:"5"`
	AttemptWindow    time.Duration `envconfig:"ATTEMPT_WINDOW" default:"15m"`
	LockoutHint      time.Duration `envconfig:"LOCKOUT_HINT" default:"30m"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"change-me-in-production"`

	// Optional mirror of activity logs to a Google Sheet.
	SheetSyncEnabled bool   `envconfig:"SHEET_SYNC_ENABLED" default:"false"`
	SheetCredential  string `envconfig:"SHEET_CREDENTIAL_PATH"`
	SpreadsheetID    string `envconfig:"SPREADSHEET_ID"`
	SheetName        string `envconfig:"SHEET_NAME" default:"ActivityLogs"`
}

func Load() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("gateway", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
