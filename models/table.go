package models

import "time"

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"table_number"`
	Capacity    int       `gorm:"not null;default:4" json:"capacity"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	QRCode      string    `gorm:"type:varchar(255)" json:"qr_code"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
