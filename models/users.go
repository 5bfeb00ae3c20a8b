package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	Email         string     `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password      string     `gorm:"type:varchar(255);not null" json:"-"`
	Role          string     `gorm:"type:varchar(20);not null;default:'CUSTOMER'" json:"role"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NormalizeEmail is the stored and compared form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}
