package models

import "time"

// Foodcourt is a tenant stall. OwnerID is unique so a user owns at most one.
type Foodcourt struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	OwnerID   *uint     `gorm:"uniqueIndex" json:"owner_id"`
	Owner     *User     `gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"owner,omitempty"`
	CreatorID uint      `gorm:"not null" json:"creator_id"`
	Creator   User      `gorm:"foreignKey:CreatorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
