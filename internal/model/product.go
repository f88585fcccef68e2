package model

import "time"

// Product is a registered software entry. SellerKey scopes calls to the
// KeyAuth seller API and must never be exposed to license holders.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"unique;not null"`
	SellerKey   string    `json:"-" gorm:"not null"`
	DownloadURL string    `json:"download_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	SellerKey   string `json:"seller_key" validate:"required,max=64"`
	DownloadURL string `json:"download_url" validate:"omitempty,url,max=500"`
}
