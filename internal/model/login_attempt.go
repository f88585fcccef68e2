package model

import "time"

// LoginAttempt is append-only; rows are only removed by retention cleanup.
type LoginAttempt struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	IPAddress   string    `json:"ip_address" gorm:"index"`
	Email       string    `json:"email" gorm:"index"` // stored lower-cased
	Success     bool      `json:"success"`
	AttemptedAt time.Time `json:"attempted_at" gorm:"index"`
}
