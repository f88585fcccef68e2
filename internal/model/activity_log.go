package model

import "time"

const (
	EventDownload  = "download"
	EventHwidReset = "hwid_reset"
)

// ActivityLog records license operations for audit. Immutable once written.
type ActivityLog struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	EventKind   string    `json:"event_kind" gorm:"index"` // download, hwid_reset
	LicenseKey  string    `json:"license_key" gorm:"index"`
	ProductName string    `json:"product_name"`
	IPAddress   string    `json:"ip_address"`
	Details     string    `json:"details"` // JSON-encoded map
	CreatedAt   time.Time `json:"created_at"`
}
