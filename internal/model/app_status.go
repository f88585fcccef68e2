package model

import "time"

// AppStatus drives the public /api_status endpoint consumed by client apps.
type AppStatus struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	AppID                 string    `json:"app_id" gorm:"unique;not null"`
	Status                string    `json:"status" gorm:"default:'online'"`
	CurrentVersion        string    `json:"current_version"`
	MinVersion            string    `json:"min_version"`
	Maintenance           bool      `json:"maintenance"`
	Message               string    `json:"message"`
	MessageOnline         string    `json:"message_online"`
	MessageOffline        string    `json:"message_offline"`
	MessageUpdateRequired string    `json:"message_update_required"`
	MessageMaintenance    string    `json:"message_maintenance"`
	DownloadURL           string    `json:"download_url"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type AppStatusInput struct {
	Status                string `json:"status" validate:"omitempty,oneof=online offline"`
	CurrentVersion        string `json:"current_version" validate:"omitempty,max=50"`
	MinVersion            string `json:"min_version" validate:"omitempty,max=50"`
	Maintenance           *bool  `json:"maintenance"`
	Message               string `json:"message" validate:"max=500"`
	MessageOnline         string `json:"message_online" validate:"max=500"`
	MessageOffline        string `json:"message_offline" validate:"max=500"`
	MessageUpdateRequired string `json:"message_update_required" validate:"max=500"`
	MessageMaintenance    string `json:"message_maintenance" validate:"max=500"`
	DownloadURL           string `json:"download_url" validate:"omitempty,url,max=500"`
}
